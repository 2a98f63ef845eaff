package compiler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/drmoyassine/frontbase-query/binding"
	"github.com/viant/toolbox"
)

const (
	selectFragment   = "select"
	limitFragment    = "limit"
	offsetFragment   = "offset"
	orderFragment    = "order"
	orFragment       = "or"
	eqFragment       = "eq."
	ilikeFragment    = "ilike.*"
	inFragment       = "in.("
	gteFragment      = "gte."
	lteFragment      = "lte."
	encloseFragment  = ")"
	wildcardFragment = "*"
	simpleEndpoint   = "/api/data/"
	dateLayout       = "2006-01-02"
)

var now = time.Now

//Builder compiles a binding and runtime state into a Request
type Builder struct{}

//NewBuilder creates Builder instance
func NewBuilder() *Builder {
	return &Builder{}
}

//Build selects a protocol and compiles one request for it. Precedence: RPC
//config, precomputed URL, bare table name. With none of them the returned
//request is empty and the caller renders an unconfigured state.
func (b *Builder) Build(aBinding *binding.TableBinding, aState *binding.State) *Request {
	if aBinding == nil {
		return &Request{}
	}
	if aState == nil {
		aState = &binding.State{}
	}
	dataRequest := aBinding.DataRequest
	switch {
	case dataRequest.IsRPC():
		return b.buildRPC(aBinding, aState)
	case dataRequest != nil && dataRequest.URL != "":
		return b.buildLegacy(aBinding, aState)
	case aBinding.TableName != "":
		return b.buildSimple(aBinding)
	}
	return &Request{}
}

func (b *Builder) buildRPC(aBinding *binding.TableBinding, aState *binding.State) *Request {
	dataRequest := aBinding.DataRequest
	config := dataRequest.Config()
	body := &RPCBody{
		TableName: config.TableName,
		Columns:   config.Columns,
		Joins:     config.Joins,
		//UI state is 0 indexed, the procedure expects 1 indexed pages,
		//this shift happens exactly once
		Page:     aState.Page + 1,
		PageSize: aBinding.PageSize(),
	}
	URL := dataRequest.URL
	if aState.Search != "" {
		URL = strings.Replace(URL, RPCGetRows, RPCSearchRows, 1)
		body.SearchQuery = aState.Search
		body.SearchCols = config.SearchColumns
	} else {
		body.SortCol, body.SortDir = resolveSort(aBinding, aState)
	}
	body.Filters = Predicates(aBinding, aState, "")
	return &Request{
		Mode:    ModeRPC,
		URL:     URL,
		Method:  methodOrDefault(dataRequest.Method, http.MethodPost),
		Headers: dataRequest.Headers,
		Body:    body,
	}
}

//Predicates maps active filter values into structured entries, excludeColumn
//leaves one column out so a filter can compile its sibling context without
//filtering its own candidate set.
func Predicates(aBinding *binding.TableBinding, aState *binding.State, excludeColumn string) []*Predicate {
	actives := aState.ActiveFilters()
	if len(actives) == 0 {
		return nil
	}
	var result []*Predicate
	for _, active := range actives {
		if excludeColumn != "" && active.Column == excludeColumn {
			continue
		}
		filterType := binding.FilterText
		if filter := aBinding.FilterByColumn(active.Column); filter != nil {
			filterType = filter.FilterType
		}
		result = append(result, &Predicate{
			Column:     active.Column,
			FilterType: filterType,
			Value:      active.Value.Raw(),
		})
	}
	return result
}

func (b *Builder) buildLegacy(aBinding *binding.TableBinding, aState *binding.State) *Request {
	dataRequest := aBinding.DataRequest
	config := dataRequest.Config()
	params := url.Values{}
	if config != nil && config.SelectParam != "" {
		params.Set(selectFragment, config.SelectParam)
	}
	pageSize := aBinding.PageSize()
	params.Set(limitFragment, strconv.Itoa(pageSize))
	params.Set(offsetFragment, strconv.Itoa(aState.Page*pageSize))
	if sortColumn, sortDirection := resolveSort(aBinding, aState); sortColumn != "" {
		params.Set(orderFragment, sortColumn+"."+sortDirection)
	}
	if aState.Search != "" && aBinding.Filtering.SearchEnabled {
		if clause := b.searchClause(aBinding, aState.Search); clause != "" {
			params.Set(orFragment, clause)
		}
	}
	b.appendPredicates(params, aState)
	base := dataRequest.URL
	if config != nil && config.BaseURL != "" {
		base = config.BaseURL
	}
	return &Request{
		Mode:    ModeLegacy,
		URL:     mergeQuery(base, params),
		Method:  methodOrDefault(dataRequest.Method, http.MethodGet),
		Headers: dataRequest.Headers,
	}
}

//searchClause ors an ilike over every visible non relation column, relation
//columns can not be ilike matched across a join in this grammar.
func (b *Builder) searchClause(aBinding *binding.TableBinding, search string) string {
	columns := aBinding.SearchableColumns()
	if len(columns) == 0 {
		return ""
	}
	sb := strings.Builder{}
	sb.WriteByte('(')
	for i, column := range columns {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(column)
		sb.WriteByte('.')
		sb.WriteString(ilikeFragment)
		sb.WriteString(search)
		sb.WriteString(wildcardFragment)
	}
	sb.WriteString(encloseFragment)
	return sb.String()
}

func (b *Builder) appendPredicates(params url.Values, aState *binding.State) {
	for _, active := range aState.ActiveFilters() {
		switch value := active.Value.(type) {
		case binding.Text:
			params.Add(active.Column, ilikeFragment+string(value)+wildcardFragment)
		case binding.Dropdown:
			params.Add(active.Column, eqFragment+string(value))
		case binding.Multiselect:
			params.Add(active.Column, inFragment+strings.Join(value, ",")+encloseFragment)
		case binding.NumberRange:
			if value.IsScalar() {
				params.Add(active.Column, eqFragment+formatNumber(*value.Min))
				continue
			}
			if value.Min != nil {
				params.Add(active.Column, gteFragment+formatNumber(*value.Min))
			}
			if value.Max != nil {
				params.Add(active.Column, lteFragment+formatNumber(*value.Max))
			}
		case binding.Boolean:
			params.Add(active.Column, eqFragment+strconv.FormatBool(bool(value)))
		case binding.DateRange:
			cutoff := now().AddDate(0, 0, -value.LastDays)
			params.Add(active.Column, gteFragment+cutoff.Format(dateLayout))
		default:
			params.Add(active.Column, eqFragment+toolbox.AsString(active.Value.Raw()))
		}
	}
}

func (b *Builder) buildSimple(aBinding *binding.TableBinding) *Request {
	return &Request{
		Mode:   ModeSimple,
		URL:    simpleEndpoint + aBinding.TableName,
		Method: http.MethodGet,
	}
}

//resolveSort applies the fallback chain: runtime state, binding sorting when
//enabled, protocol config, with direction defaulting to asc.
func resolveSort(aBinding *binding.TableBinding, aState *binding.State) (string, string) {
	if aBinding == nil {
		return "", ""
	}
	config := aBinding.DataRequest.Config()
	column := aState.SortColumn
	if column == "" && aBinding.Sorting.Enabled {
		column = aBinding.Sorting.Column
	}
	if column == "" && config != nil {
		column = config.SortColumn
	}
	if column == "" {
		return "", ""
	}
	direction := aState.SortDirection
	if direction == "" && aBinding.Sorting.Enabled {
		direction = aBinding.Sorting.Direction
	}
	if direction == "" && config != nil {
		direction = config.SortDirection
	}
	if direction == "" {
		direction = binding.Asc
	}
	return column, direction
}

func mergeQuery(base string, params url.Values) string {
	if len(params) == 0 {
		return base
	}
	parsed, err := url.Parse(base)
	if err != nil {
		separator := "?"
		if strings.Contains(base, "?") {
			separator = "&"
		}
		return base + separator + params.Encode()
	}
	merged := parsed.Query()
	for key, values := range params {
		merged[key] = values
	}
	parsed.RawQuery = merged.Encode()
	return parsed.String()
}

func methodOrDefault(method, fallback string) string {
	if method == "" {
		return fallback
	}
	return method
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
