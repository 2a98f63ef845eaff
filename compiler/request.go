package compiler

import (
	"encoding/json"
	"sort"

	"github.com/drmoyassine/frontbase-query/binding"
	"github.com/francoispqt/gojay"
)

//Mode identifies the dialect a request was compiled for
type Mode string

const (
	//ModeNone marks an unconfigured binding, no request can be issued
	ModeNone Mode = ""
	//ModeRPC sends the whole query as a structured JSON body to a named procedure
	ModeRPC Mode = "rpc"
	//ModeLegacy expresses the query as URL query string operators
	ModeLegacy Mode = "legacy"
	//ModeSimple fetches a table without filters, sort or paging
	ModeSimple Mode = "simple"
)

//Procedure names understood by the query backend
const (
	RPCGetRows        = "frontbase_get_rows"
	RPCSearchRows     = "frontbase_search_rows"
	RPCDistinctValues = "frontbase_get_distinct_values"
)

type (
	//Request describes exactly one HTTP call in one dialect
	Request struct {
		Mode    Mode
		URL     string
		Method  string
		Headers map[string]string
		Body    *RPCBody
	}

	//RPCBody carries the procedure arguments, wire encoding is owned by
	//MarshalJSONObject so search and sort stay mutually exclusive.
	RPCBody struct {
		TableName   string
		Columns     []string
		Joins       []*binding.Join
		Page        int
		PageSize    int
		SortCol     string
		SortDir     string
		SearchQuery string
		SearchCols  []string
		Filters     []*Predicate
		Column      string
	}

	//Predicate is one structured filter entry of an RPC body
	Predicate struct {
		Column     string
		FilterType binding.FilterType
		Value      interface{}
	}
)

//IsEmpty returns true when no protocol could be selected
func (r *Request) IsEmpty() bool {
	return r == nil || r.Mode == ModeNone
}

//Searching reports whether the body carries a search term
func (b *RPCBody) Searching() bool {
	return b != nil && b.SearchQuery != ""
}

func (r *Request) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("url", r.URL)
	enc.StringKey("method", r.Method)
	if len(r.Headers) > 0 {
		enc.ObjectKey("headers", headerMap(r.Headers))
	}
	if r.Body != nil {
		enc.ObjectKey("body", r.Body)
	}
}

func (r *Request) IsNil() bool {
	return r == nil
}

func (b *RPCBody) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("table_name", b.TableName)
	if len(b.Columns) > 0 {
		enc.ArrayKey("columns", stringArray(b.Columns))
	}
	if len(b.Joins) > 0 {
		enc.ArrayKey("joins", joinArray(b.Joins))
	}
	//zero page and page size only occur on option list bodies, which carry neither
	enc.IntKeyOmitEmpty("page", b.Page)
	enc.IntKeyOmitEmpty("page_size", b.PageSize)
	if b.Searching() {
		enc.StringKey("search_query", b.SearchQuery)
		//an empty search_cols still has to reach the wire, it tells the
		//server to auto detect text columns
		enc.ArrayKey("search_cols", stringArray(b.SearchCols))
	} else if b.SortCol != "" {
		enc.StringKey("sort_col", b.SortCol)
		enc.StringKey("sort_dir", b.SortDir)
	}
	if len(b.Filters) > 0 {
		enc.ArrayKey("filters", predicateArray(b.Filters))
	}
	if b.Column != "" {
		enc.StringKey("column", b.Column)
	}
}

func (b *RPCBody) IsNil() bool {
	return b == nil
}

//MarshalJSON keeps encoding/json callers on the same wire shape
func (b *RPCBody) MarshalJSON() ([]byte, error) {
	return gojay.MarshalJSONObject(b)
}

func (p *Predicate) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("column", p.Column)
	enc.StringKey("filterType", string(p.FilterType))
	data, err := json.Marshal(p.Value)
	if err != nil {
		data = []byte("null")
	}
	embedded := gojay.EmbeddedJSON(data)
	enc.AddEmbeddedJSONKey("value", &embedded)
}

func (p *Predicate) IsNil() bool {
	return p == nil
}

type stringArray []string

func (a stringArray) MarshalJSONArray(enc *gojay.Encoder) {
	for _, item := range a {
		enc.String(item)
	}
}

func (a stringArray) IsNil() bool {
	return len(a) == 0
}

type joinArray []*binding.Join

func (j joinArray) MarshalJSONArray(enc *gojay.Encoder) {
	for _, item := range j {
		enc.Object(joinObject{item})
	}
}

func (j joinArray) IsNil() bool {
	return len(j) == 0
}

type joinObject struct {
	*binding.Join
}

func (j joinObject) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("table", j.Table)
	enc.StringKey("on", j.On)
	enc.StringKeyOmitEmpty("type", j.Type)
}

func (j joinObject) IsNil() bool {
	return j.Join == nil
}

type predicateArray []*Predicate

func (p predicateArray) MarshalJSONArray(enc *gojay.Encoder) {
	for _, item := range p {
		enc.Object(item)
	}
}

func (p predicateArray) IsNil() bool {
	return len(p) == 0
}

type headerMap map[string]string

func (h headerMap) MarshalJSONObject(enc *gojay.Encoder) {
	keys := make([]string, 0, len(h))
	for key := range h {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		enc.StringKey(key, h[key])
	}
}

func (h headerMap) IsNil() bool {
	return len(h) == 0
}
