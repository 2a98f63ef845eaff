package fbquery

import (
	"context"
	_ "embed"
	"reflect"
	"time"

	"github.com/drmoyassine/frontbase-query/binding"
	"github.com/drmoyassine/frontbase-query/cache"
	"github.com/drmoyassine/frontbase-query/compiler"
	"github.com/drmoyassine/frontbase-query/dispatch"
	"github.com/drmoyassine/frontbase-query/logger"
	"github.com/drmoyassine/frontbase-query/options"
	"github.com/drmoyassine/frontbase-query/resolver"
	"github.com/pkg/errors"
	"github.com/viant/gmetric"
	"github.com/viant/gmetric/provider"
)

//go:embed Version
var Version string

//Service turns table bindings and runtime state into resolved rows. It owns
//the compile, dispatch, parse pipeline behind a keyed result cache and a
//filter options resolver.
type Service struct {
	builder         *compiler.Builder
	dispatcher      dispatch.Service
	cache           *cache.Service
	optionsResolver *options.Resolver
	logger          *logger.Adapter
	metrics         *gmetric.Service
	fetchCounter    *logger.CounterAdapter
}

//New creates a query service
func New(opts ...Option) (*Service, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	ret := &Service{
		builder:    compiler.NewBuilder(),
		dispatcher: cfg.dispatcher,
		cache:      cache.New(cfg.store, cfg.freshTTL),
		logger:     cfg.logger,
		metrics:    cfg.metrics,
	}
	ret.fetchCounter = logger.NewCounter(ret.operation("fbquery.fetch"))
	ret.optionsResolver = options.New(cfg.dispatcher,
		options.WithLogger(cfg.logger),
		options.WithCounter(ret.operation("fbquery.options")),
	)
	return ret, nil
}

//Fetch resolves table rows for a binding and state. A fresh cache entry is
//served without dispatching, concurrent fetches of one key collapse into a
//single dispatch. An unconfigured binding yields an empty result flagged
//Unconfigured with a nil error.
func (s *Service) Fetch(ctx context.Context, aBinding *binding.TableBinding, aState *binding.State) (*resolver.Result, error) {
	request := s.builder.Build(aBinding, aState)
	if request.IsEmpty() {
		return &resolver.Result{Rows: []resolver.Row{}, Unconfigured: true}, nil
	}
	key := compiler.NewKey(aBinding, aState).String()
	onFinish := s.fetchCounter.Begin(time.Now())
	s.fetchCounter.IncrementValue(logger.Pending)
	defer s.fetchCounter.DecrementValue(logger.Pending)
	loaded := false
	value, err := s.cache.Fetch(ctx, key, func(ctx context.Context) (interface{}, error) {
		loaded = true
		s.logger.RequestBuilt(string(request.Mode), request.URL)
		data, dispatchErr := s.dispatcher.Do(ctx, request)
		if dispatchErr != nil {
			return nil, dispatchErr
		}
		return resolver.ParseResponse(data)
	})
	s.logger.CacheProbe(key, !loaded)
	if err != nil {
		s.fetchCounter.IncrementValue(logger.Error)
		onFinish(time.Now())
		return nil, err
	}
	s.fetchCounter.IncrementValue(logger.Success)
	onFinish(time.Now())
	result, ok := value.(*resolver.Result)
	if !ok {
		return nil, errors.Errorf("unexpected cache entry %T for %v", value, key)
	}
	return result, nil
}

//Seed preloads the cache with rows shipped alongside the binding so the first
//render needs no fetch. The key derives from a zero state, only a binding's
//default view is seedable.
func (s *Service) Seed(aBinding *binding.TableBinding, aResult *resolver.Result) {
	if aBinding == nil || aResult == nil {
		return
	}
	s.cache.Put(compiler.NewKey(aBinding, &binding.State{}).String(), aResult)
}

//Invalidate drops the cache entry of a binding and state
func (s *Service) Invalidate(aBinding *binding.TableBinding, aState *binding.State) {
	s.cache.Invalidate(compiler.NewKey(aBinding, aState).String())
}

//Options resolves dynamic filter option lists for a binding
func (s *Service) Options(ctx context.Context, aBinding *binding.TableBinding, aState *binding.State) map[string][]*binding.Option {
	return s.optionsResolver.Resolve(ctx, aBinding, aState)
}

//Key exposes the cache identity of a binding and state
func (s *Service) Key(aBinding *binding.TableBinding, aState *binding.State) *compiler.Key {
	return compiler.NewKey(aBinding, aState)
}

//Metrics returns the operation metrics service
func (s *Service) Metrics() *gmetric.Service {
	return s.metrics
}

//Close releases cache resources
func (s *Service) Close() {
	s.cache.Close()
	s.optionsResolver.Close()
}

func (s *Service) operation(name string) logger.Counter {
	if s.metrics == nil {
		return nil
	}
	if op := s.metrics.LookupOperation(name); op != nil {
		return op
	}
	return s.metrics.MultiOperationCounter(metricLocation(), name, name+" performance", time.Millisecond, time.Minute, 2, provider.NewBasic())
}

type metricsLocation struct{}

func metricLocation() string {
	return reflect.TypeOf(metricsLocation{}).PkgPath()
}
