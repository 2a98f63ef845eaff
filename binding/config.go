package binding

//DataRequest describes where and how table data is requested. For the RPC dialect
//QueryConfig drives the request body, for the legacy dialect the URL is precomputed
//and the compiler appends query string operators.
type (
	DataRequest struct {
		URL         string            `json:"url,omitempty" yaml:"url,omitempty"`
		Method      string            `json:"method,omitempty" yaml:"method,omitempty"`
		Headers     map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
		QueryConfig *QueryConfig      `json:"queryConfig,omitempty" yaml:"queryConfig,omitempty"`
	}

	//QueryConfig is the protocol descriptor, exactly one of the two shapes is active:
	//UseRPC with TableName/Columns/Joins, or BaseURL with SelectParam.
	QueryConfig struct {
		UseRPC        bool     `json:"useRpc,omitempty" yaml:"useRpc,omitempty"`
		TableName     string   `json:"tableName,omitempty" yaml:"tableName,omitempty"`
		Columns       []string `json:"columns,omitempty" yaml:"columns,omitempty"`
		Joins         []*Join  `json:"joins,omitempty" yaml:"joins,omitempty"`
		SearchColumns []string `json:"searchColumns,omitempty" yaml:"searchColumns,omitempty"`
		SortColumn    string   `json:"sortColumn,omitempty" yaml:"sortColumn,omitempty"`
		SortDirection string   `json:"sortDirection,omitempty" yaml:"sortDirection,omitempty"`

		BaseURL     string `json:"baseUrl,omitempty" yaml:"baseUrl,omitempty"`
		SelectParam string `json:"selectParam,omitempty" yaml:"selectParam,omitempty"`
	}

	Join struct {
		Table string `json:"table,omitempty" yaml:"table,omitempty"`
		On    string `json:"on,omitempty" yaml:"on,omitempty"`
		Type  string `json:"type,omitempty" yaml:"type,omitempty"`
	}
)

//Config returns the query config if any
func (r *DataRequest) Config() *QueryConfig {
	if r == nil {
		return nil
	}
	return r.QueryConfig
}

//IsRPC returns true when the RPC dialect is active
func (r *DataRequest) IsRPC() bool {
	config := r.Config()
	return config != nil && config.UseRPC
}
