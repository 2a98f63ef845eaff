package resolver

import (
	"encoding/json"

	"github.com/drmoyassine/frontbase-query/shared"
	"github.com/viant/toolbox"
)

const (
	valueKey            = "value"
	defaultErrorMessage = "query failed"
)

type (
	//Row is one result row of unknown shape
	Row map[string]interface{}

	//Result holds resolved rows with a best effort total. Unconfigured marks
	//a binding that selected no protocol, it is set by the caller, never here.
	Result struct {
		Rows         []Row `json:"rows"`
		Total        int   `json:"total"`
		Unconfigured bool  `json:"unconfigured,omitempty"`
	}

	envelope struct {
		Success *bool           `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
		Message string          `json:"message"`
		Total   interface{}     `json:"total"`
	}

	dataBlock struct {
		Rows  json.RawMessage `json:"rows"`
		Total interface{}     `json:"total"`
		Error string          `json:"error"`
	}
)

//ParseResponse resolves a raw response into rows and total. Both dialects
//share the `{success, data, error?}` envelope, data itself may be a wrapped
//`{rows, total}` block or a bare array; a missing success field counts as
//success so unwrapped payloads still resolve.
func ParseResponse(data []byte) (*Result, error) {
	env := &envelope{}
	if err := json.Unmarshal(data, env); err != nil {
		var items []interface{}
		if arrayErr := json.Unmarshal(data, &items); arrayErr == nil {
			rows := coerceRows(items)
			return &Result{Rows: rows, Total: len(rows)}, nil
		}
		return nil, shared.NewEnvelopeError("%v", err)
	}
	if env.Success != nil && !*env.Success {
		return nil, shared.NewEnvelopeError("%v", errorMessage(env))
	}
	rows, dataTotal := parseData(env.Data)
	return &Result{
		Rows:  rows,
		Total: resolveTotal(dataTotal, env.Total, len(rows)),
	}, nil
}

func parseData(raw json.RawMessage) ([]Row, interface{}) {
	if len(raw) == 0 || string(raw) == "null" {
		return []Row{}, nil
	}
	block := &dataBlock{}
	if err := json.Unmarshal(raw, block); err == nil {
		if block.Rows != nil {
			return coerceRaw(block.Rows), block.Total
		}
		return []Row{}, block.Total
	}
	return coerceRaw(raw), nil
}

func coerceRaw(raw json.RawMessage) []Row {
	var items []interface{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return []Row{}
	}
	return coerceRows(items)
}

//coerceRows wraps scalar entries so a row always addresses by key, aggregate
//endpoints return bare scalars.
func coerceRows(items []interface{}) []Row {
	result := make([]Row, 0, len(items))
	for _, item := range items {
		switch actual := item.(type) {
		case map[string]interface{}:
			result = append(result, Row(actual))
		default:
			result = append(result, Row{valueKey: actual})
		}
	}
	return result
}

func resolveTotal(dataTotal, envelopeTotal interface{}, rowCount int) int {
	for _, candidate := range []interface{}{dataTotal, envelopeTotal} {
		if candidate == nil {
			continue
		}
		if total := toolbox.AsInt(candidate); total >= 0 {
			return total
		}
	}
	return rowCount
}

func errorMessage(env *envelope) string {
	if env.Error != "" {
		return env.Error
	}
	if len(env.Data) > 0 {
		block := &dataBlock{}
		if err := json.Unmarshal(env.Data, block); err == nil && block.Error != "" {
			return block.Error
		}
	}
	if env.Message != "" {
		return env.Message
	}
	return defaultErrorMessage
}
