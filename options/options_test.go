package options

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/drmoyassine/frontbase-query/binding"
	"github.com/drmoyassine/frontbase-query/compiler"
	"github.com/drmoyassine/frontbase-query/shared"
	"github.com/stretchr/testify/assert"
	"github.com/viant/assertly"
)

type stubDispatcher struct {
	mux       sync.Mutex
	requests  []*compiler.Request
	responses map[string]string
	failures  map[string]error
}

func (d *stubDispatcher) Do(ctx context.Context, request *compiler.Request) ([]byte, error) {
	d.mux.Lock()
	d.requests = append(d.requests, request)
	d.mux.Unlock()
	if err, ok := d.failures[request.URL]; ok {
		return nil, err
	}
	if response, ok := d.responses[request.URL]; ok {
		return []byte(response), nil
	}
	return []byte(`{"success":true,"data":{"rows":[]}}`), nil
}

func (d *stubDispatcher) countFor(URL string) int {
	d.mux.Lock()
	defer d.mux.Unlock()
	result := 0
	for _, request := range d.requests {
		if request.URL == URL {
			result++
		}
	}
	return result
}

func (d *stubDispatcher) requestFor(URL string) *compiler.Request {
	d.mux.Lock()
	defer d.mux.Unlock()
	for i := len(d.requests) - 1; i >= 0; i-- {
		if d.requests[i].URL == URL {
			return d.requests[i]
		}
	}
	return nil
}

const (
	categoryOptionsURL = "https://api.example.com/rest/v1/rpc/frontbase_get_distinct_values"
	regionOptionsURL   = "https://api.example.com/rest/v1/regions?select=region"
)

func optionsBinding(searchColumns ...string) *binding.TableBinding {
	return &binding.TableBinding{
		TableName:   "products",
		ColumnOrder: []string{"id", "name", "category", "region"},
		FrontendFilters: []*binding.FilterConfig{
			{
				ID:         "f-category",
				Column:     "category",
				FilterType: binding.FilterDropdown,
				OptionsDataRequest: &binding.DataRequest{
					URL:    categoryOptionsURL,
					Method: http.MethodPost,
					QueryConfig: &binding.QueryConfig{
						UseRPC:        true,
						TableName:     "products",
						SearchColumns: searchColumns,
					},
				},
			},
			{
				ID:                 "f-region",
				Column:             "region",
				FilterType:         binding.FilterMultiselect,
				OptionsDataRequest: &binding.DataRequest{URL: regionOptionsURL},
			},
			{
				ID:                 "f-name",
				Column:             "name",
				FilterType:         binding.FilterText,
				OptionsDataRequest: &binding.DataRequest{URL: "https://api.example.com/never"},
			},
			{
				ID:         "f-status",
				Column:     "status",
				FilterType: binding.FilterDropdown,
				Options:    []*binding.Option{{Label: "Open", Value: "open"}},
			},
		},
	}
}

func TestResolver_Resolve(t *testing.T) {
	dispatcher := &stubDispatcher{
		responses: map[string]string{
			categoryOptionsURL: `{"success":true,"data":{"rows":[{"category":"electronics"},{"category":"books"},{"category":"electronics"},{"category":""}]}}`,
			regionOptionsURL:   `[{"region":"west"},{"region":"east"}]`,
		},
	}
	aResolver := New(dispatcher)
	defer aResolver.Close()

	aBinding := optionsBinding()
	if !assert.Nil(t, aBinding.Init()) {
		return
	}
	result := aResolver.Resolve(context.Background(), aBinding, &binding.State{})
	if !assert.EqualValues(t, 2, len(result), "only filters with a dynamic source resolve") {
		return
	}
	assertly.AssertValues(t, `[{"label":"electronics","value":"electronics"},{"label":"books","value":"books"}]`,
		result["f-category"], "duplicates and empty values dropped")
	assertly.AssertValues(t, `[{"label":"west","value":"west"},{"label":"east","value":"east"}]`,
		result["f-region"], "bare array source")

	assert.EqualValues(t, 0, dispatcher.countFor("https://api.example.com/never"), "text filter never resolves")

	legacy := dispatcher.requestFor(regionOptionsURL)
	if assert.NotNil(t, legacy) {
		assert.EqualValues(t, compiler.ModeLegacy, legacy.Mode)
		assert.EqualValues(t, http.MethodGet, legacy.Method)
		assert.EqualValues(t, regionOptionsURL, legacy.URL, "plain source passes through untouched")
		assert.Nil(t, legacy.Body)
	}
}

func TestResolver_Resolve_cascade(t *testing.T) {
	dispatcher := &stubDispatcher{}
	aResolver := New(dispatcher)
	defer aResolver.Close()

	aBinding := optionsBinding()
	if !assert.Nil(t, aBinding.Init()) {
		return
	}
	aState := &binding.State{Search: "wid"}
	aState.SetFilter("category", binding.Dropdown("electronics"))
	aState.SetFilter("region", binding.Multiselect{"west"})

	aResolver.Resolve(context.Background(), aBinding, aState)

	request := dispatcher.requestFor(categoryOptionsURL)
	if !assert.NotNil(t, request) {
		return
	}
	assert.EqualValues(t, compiler.ModeRPC, request.Mode)
	assert.EqualValues(t, http.MethodPost, request.Method)
	assertly.AssertValues(t, `{
	"table_name": "products",
	"column": "category",
	"search_query": "wid",
	"search_cols": ["id", "name", "category", "region"],
	"filters": [{"column": "region", "filterType": "multiselect", "value": ["west"]}]
}`, bodyMap(t, request), "own column excluded, sibling context and search kept")
}

func TestResolver_Resolve_explicitSearchColumns(t *testing.T) {
	dispatcher := &stubDispatcher{}
	aResolver := New(dispatcher)
	defer aResolver.Close()

	aBinding := optionsBinding("name")
	if !assert.Nil(t, aBinding.Init()) {
		return
	}
	aResolver.Resolve(context.Background(), aBinding, &binding.State{Search: "wid"})

	request := dispatcher.requestFor(categoryOptionsURL)
	if !assert.NotNil(t, request) {
		return
	}
	assertly.AssertValues(t, `{"search_query": "wid", "search_cols": ["name"]}`, bodyMap(t, request),
		"protocol search columns win over the binding fallback")
}

func TestResolver_Resolve_normalization(t *testing.T) {
	URL := "https://api.example.com/rest/v1/rpc/frontbase_get_distinct_values"
	dispatcher := &stubDispatcher{
		responses: map[string]string{
			URL: `{"success":true,"data":{"rows":[
				{"code":"A1"},
				{"value":7},
				{"zz":"ignored","aa":"A2"},
				{"code":"A1"},
				{"code":""},
				"A3"
			]}}`,
		},
	}
	aResolver := New(dispatcher)
	defer aResolver.Close()

	aBinding := &binding.TableBinding{
		TableName: "parts",
		FrontendFilters: []*binding.FilterConfig{
			{
				ID:         "f-code",
				Column:     "code",
				FilterType: binding.FilterDropdown,
				OptionsDataRequest: &binding.DataRequest{
					URL:         URL,
					QueryConfig: &binding.QueryConfig{UseRPC: true, TableName: "parts"},
				},
			},
		},
	}
	if !assert.Nil(t, aBinding.Init()) {
		return
	}
	result := aResolver.Resolve(context.Background(), aBinding, &binding.State{})
	assertly.AssertValues(t, `[
	{"label":"A1","value":"A1"},
	{"label":"7","value":"7"},
	{"label":"A2","value":"A2"},
	{"label":"A3","value":"A3"}
]`, result["f-code"], "column key, single key wrapper, first sorted key and scalar rows all normalize")
}

func TestResolver_Resolve_memoization(t *testing.T) {
	dispatcher := &stubDispatcher{}
	aResolver := New(dispatcher)
	defer aResolver.Close()

	aBinding := optionsBinding()
	if !assert.Nil(t, aBinding.Init()) {
		return
	}
	ctx := context.Background()
	aState := &binding.State{}

	aResolver.Resolve(ctx, aBinding, aState)
	aResolver.Resolve(ctx, aBinding, aState)
	assert.EqualValues(t, 1, dispatcher.countFor(categoryOptionsURL), "identical dependencies hit the memo")
	assert.EqualValues(t, 1, dispatcher.countFor(regionOptionsURL))

	aState.SetFilter("region", binding.Multiselect{"west"})
	aResolver.Resolve(ctx, aBinding, aState)
	assert.EqualValues(t, 2, dispatcher.countFor(categoryOptionsURL), "sibling value is a dependency")
	assert.EqualValues(t, 1, dispatcher.countFor(regionOptionsURL), "own value is not a dependency")

	presentational := optionsBinding()
	presentational.ColumnOverrides = map[string]*binding.ColumnOverride{
		"name": {DisplayName: "Product"},
	}
	if !assert.Nil(t, presentational.Init()) {
		return
	}
	aResolver.Resolve(ctx, presentational, aState)
	assert.EqualValues(t, 2, dispatcher.countFor(categoryOptionsURL), "presentation changes never refetch")

	aState.Search = "wid"
	aResolver.Resolve(ctx, aBinding, aState)
	assert.EqualValues(t, 3, dispatcher.countFor(categoryOptionsURL), "search is a dependency")
	assert.EqualValues(t, 2, dispatcher.countFor(regionOptionsURL))
}

func TestResolver_Resolve_failureIsolation(t *testing.T) {
	colorURL := "https://api.example.com/rest/v1/rpc/colors"
	sizeURL := "https://api.example.com/rest/v1/rpc/sizes"
	brandURL := "https://api.example.com/rest/v1/rpc/brands"
	dispatcher := &stubDispatcher{
		responses: map[string]string{
			colorURL: `{"success":true,"data":{"rows":[{"color":"red"},{"color":"blue"}]}}`,
			brandURL: `{"success":true,"data":{"rows":[{"brand":"acme"}]}}`,
		},
		failures: map[string]error{
			sizeURL: shared.NewTransportError(http.StatusServiceUnavailable, "upstream down"),
		},
	}
	aResolver := New(dispatcher)
	defer aResolver.Close()

	aBinding := &binding.TableBinding{
		TableName: "products",
		FrontendFilters: []*binding.FilterConfig{
			dynamicFilter("f-color", "color", colorURL),
			dynamicFilter("f-size", "size", sizeURL),
			dynamicFilter("f-brand", "brand", brandURL),
		},
	}
	if !assert.Nil(t, aBinding.Init()) {
		return
	}
	result := aResolver.Resolve(context.Background(), aBinding, &binding.State{})
	if !assert.EqualValues(t, 3, len(result), "a failing filter still reports") {
		return
	}
	assert.EqualValues(t, 2, len(result["f-color"]), "siblings of a failing filter resolve")
	assert.EqualValues(t, 1, len(result["f-brand"]))
	if assert.NotNil(t, result["f-size"], "failure degrades to an empty list") {
		assert.EqualValues(t, 0, len(result["f-size"]))
	}
}

func TestDependencyKey(t *testing.T) {
	filter := &binding.FilterConfig{ID: "f-category", Column: "category", FilterType: binding.FilterDropdown}

	base := &binding.State{}
	base.SetFilter("region", binding.Multiselect{"west"})
	base.SetFilter("status", binding.Dropdown("open"))

	reordered := &binding.State{}
	reordered.SetFilter("status", binding.Dropdown("open"))
	reordered.SetFilter("region", binding.Multiselect{"west"})
	assert.EqualValues(t, DependencyKey(filter, base), DependencyKey(filter, reordered), "sibling order does not matter")

	ownValue := base.Clone()
	ownValue.SetFilter("category", binding.Dropdown("books"))
	assert.EqualValues(t, DependencyKey(filter, base), DependencyKey(filter, ownValue), "own column is excluded")

	siblingValue := base.Clone()
	siblingValue.SetFilter("region", binding.Multiselect{"east"})
	assert.NotEqualValues(t, DependencyKey(filter, base), DependencyKey(filter, siblingValue))

	searching := base.Clone()
	searching.Search = "wid"
	assert.NotEqualValues(t, DependencyKey(filter, base), DependencyKey(filter, searching))

	other := &binding.FilterConfig{ID: "f-region", Column: "region", FilterType: binding.FilterMultiselect}
	assert.NotEqualValues(t, DependencyKey(filter, base), DependencyKey(other, base))
}

func dynamicFilter(id, column, URL string) *binding.FilterConfig {
	return &binding.FilterConfig{
		ID:         id,
		Column:     column,
		FilterType: binding.FilterDropdown,
		OptionsDataRequest: &binding.DataRequest{
			URL:         URL,
			QueryConfig: &binding.QueryConfig{UseRPC: true, TableName: column + "s"},
		},
	}
}

func bodyMap(t *testing.T, request *compiler.Request) map[string]interface{} {
	if !assert.NotNil(t, request.Body) {
		return nil
	}
	data, err := json.Marshal(request.Body)
	if !assert.Nil(t, err) {
		return nil
	}
	result := map[string]interface{}{}
	if !assert.Nil(t, json.Unmarshal(data, &result)) {
		return nil
	}
	return result
}
