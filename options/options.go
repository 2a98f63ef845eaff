package options

import (
	"context"
	"hash/fnv"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/drmoyassine/frontbase-query/binding"
	"github.com/drmoyassine/frontbase-query/cache"
	"github.com/drmoyassine/frontbase-query/compiler"
	"github.com/drmoyassine/frontbase-query/dispatch"
	"github.com/drmoyassine/frontbase-query/logger"
	"github.com/drmoyassine/frontbase-query/resolver"
	"github.com/drmoyassine/frontbase-query/shared"
	"github.com/viant/toolbox"
)

const keyPrefix = "options:"

//Resolver resolves dynamic option lists for dropdown and multiselect filters.
//Each filter resolves independently, a failing filter degrades to an empty
//list without touching its siblings. Results memoize on the filter's
//dependency set so unrelated binding changes never refetch.
type Resolver struct {
	dispatcher dispatch.Service
	memo       *cache.Service
	logger     *logger.Adapter
	counter    *logger.CounterAdapter
}

//Option customizes the resolver
type Option func(*Resolver)

//WithCache sets the memoization cache
func WithCache(service *cache.Service) Option {
	return func(r *Resolver) {
		if service != nil {
			r.memo = service
		}
	}
}

//WithLogger sets the event adapter
func WithLogger(adapter *logger.Adapter) Option {
	return func(r *Resolver) {
		if adapter != nil {
			r.logger = adapter
		}
	}
}

//WithCounter sets the resolution counter
func WithCounter(counter logger.Counter) Option {
	return func(r *Resolver) {
		r.counter = logger.NewCounter(counter)
	}
}

//New creates an options resolver
func New(dispatcher dispatch.Service, opts ...Option) *Resolver {
	result := &Resolver{
		dispatcher: dispatcher,
		logger:     logger.Default(),
		counter:    logger.NewCounter(nil),
	}
	for _, opt := range opts {
		opt(result)
	}
	if result.memo == nil {
		store, _ := cache.NewStore("", cache.DefaultGCTTL)
		result.memo = cache.New(store, cache.DefaultFreshTTL)
	}
	return result
}

//Resolve fetches option lists for every eligible filter concurrently and
//returns them keyed by filter id. It never fails as a whole, per filter
//failures are logged and yield empty lists.
func (r *Resolver) Resolve(ctx context.Context, aBinding *binding.TableBinding, aState *binding.State) map[string][]*binding.Option {
	result := map[string][]*binding.Option{}
	if aBinding == nil {
		return result
	}
	if aState == nil {
		aState = &binding.State{}
	}
	var eligible []*binding.FilterConfig
	for _, filter := range aBinding.FrontendFilters {
		if filter.HasDynamicOptions() {
			eligible = append(eligible, filter)
		}
	}
	if len(eligible) == 0 {
		return result
	}

	started := time.Now()
	onFinish := r.counter.Begin(started)
	r.counter.IncrementValue(logger.Pending)
	defer r.counter.DecrementValue(logger.Pending)
	failures := shared.NewErrors()
	mux := sync.Mutex{}
	waitGroup := sync.WaitGroup{}
	for i := range eligible {
		filter := eligible[i]
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			values, err := r.resolveFilter(ctx, aBinding, aState, filter)
			if err != nil {
				failures.Append(err)
				values = []*binding.Option{}
			}
			r.logger.OptionsResolved(filter.ID, len(values), err)
			mux.Lock()
			result[filter.ID] = values
			mux.Unlock()
		}()
	}
	waitGroup.Wait()
	if failures.Count() > 0 {
		r.counter.IncrementValue(logger.Error)
		r.logger.Log("%v of %v option lists degraded after %vms: %v", failures.Count(), len(eligible), shared.ElapsedInMs(started), failures.Error())
	} else {
		r.counter.IncrementValue(logger.Success)
	}
	onFinish(time.Now())
	return result
}

func (r *Resolver) resolveFilter(ctx context.Context, aBinding *binding.TableBinding, aState *binding.State, filter *binding.FilterConfig) ([]*binding.Option, error) {
	key := DependencyKey(filter, aState)
	value, err := r.memo.Fetch(ctx, key, func(ctx context.Context) (interface{}, error) {
		request := r.buildRequest(aBinding, aState, filter)
		data, err := r.dispatcher.Do(ctx, request)
		if err != nil {
			return nil, err
		}
		parsed, err := resolver.ParseResponse(data)
		if err != nil {
			return nil, err
		}
		return normalize(parsed.Rows, filter.Column), nil
	})
	if err != nil {
		return nil, err
	}
	values, ok := value.([]*binding.Option)
	if !ok {
		return nil, shared.NewOptionsError("unexpected cache entry for filter %v", filter.ID)
	}
	return values, nil
}

//buildRequest compiles the cascading options request. An RPC shaped source
//carries the sibling filter context and the active search, a plain URL source
//passes through untouched.
func (r *Resolver) buildRequest(aBinding *binding.TableBinding, aState *binding.State, filter *binding.FilterConfig) *compiler.Request {
	dataRequest := filter.OptionsDataRequest
	config := dataRequest.Config()
	if dataRequest.IsRPC() || strings.EqualFold(dataRequest.Method, http.MethodPost) {
		body := &compiler.RPCBody{
			Column:  filter.Column,
			Filters: compiler.Predicates(aBinding, aState, filter.Column),
		}
		if config != nil {
			body.TableName = config.TableName
		}
		if aState.Search != "" {
			body.SearchQuery = aState.Search
			body.SearchCols = searchColumns(aBinding, config)
		}
		return &compiler.Request{
			Mode:    compiler.ModeRPC,
			URL:     dataRequest.URL,
			Method:  http.MethodPost,
			Headers: dataRequest.Headers,
			Body:    body,
		}
	}
	method := dataRequest.Method
	if method == "" {
		method = http.MethodGet
	}
	return &compiler.Request{
		Mode:    compiler.ModeLegacy,
		URL:     dataRequest.URL,
		Method:  method,
		Headers: dataRequest.Headers,
	}
}

//searchColumns scopes an options search, explicit protocol columns win, then
//the visible non relation columns of the binding.
func searchColumns(aBinding *binding.TableBinding, config *binding.QueryConfig) []string {
	if config != nil && len(config.SearchColumns) > 0 {
		return config.SearchColumns
	}
	return aBinding.SearchableColumns()
}

//DependencyKey fingerprints everything a filter's option list depends on:
//the filter itself, its sibling filter values and the search string.
func DependencyKey(filter *binding.FilterConfig, aState *binding.State) string {
	if aState == nil {
		aState = &binding.State{}
	}
	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(filter.ID))
	_, _ = hasher.Write([]byte{'|'})
	_, _ = hasher.Write([]byte(aState.FilterFingerprint(filter.Column)))
	_, _ = hasher.Write([]byte{'|'})
	_, _ = hasher.Write([]byte(aState.Search))
	return keyPrefix + filter.ID + ":" + strconv.FormatUint(hasher.Sum64(), 16)
}

//Close releases the memoization cache
func (r *Resolver) Close() {
	r.memo.Close()
}

func normalize(rows []resolver.Row, column string) []*binding.Option {
	result := make([]*binding.Option, 0, len(rows))
	seen := map[string]bool{}
	for _, row := range rows {
		value := optionValue(row, column)
		if value == nil {
			continue
		}
		text := toolbox.AsString(value)
		if text == "" || seen[text] {
			continue
		}
		seen[text] = true
		result = append(result, &binding.Option{Label: text, Value: text})
	}
	return result
}

//optionValue unwraps one raw entry: the filter column when present, the
//single value of a one key wrapper, otherwise the first value by sorted key.
func optionValue(row resolver.Row, column string) interface{} {
	if value := resolver.CellValue(row, column); value != nil {
		return value
	}
	if len(row) == 0 {
		return nil
	}
	keys := make([]string, 0, len(row))
	for key := range row {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return row[keys[0]]
}
