package fbquery

import (
	"net/http"
	"time"

	"github.com/drmoyassine/frontbase-query/cache"
	"github.com/drmoyassine/frontbase-query/dispatch"
	"github.com/drmoyassine/frontbase-query/logger"
	"github.com/viant/gmetric"
)

type config struct {
	dispatcher dispatch.Service
	store      cache.Store
	provider   string
	freshTTL   time.Duration
	gcTTL      time.Duration
	logger     *logger.Adapter
	metrics    *gmetric.Service
	endpoint   string
	client     *http.Client
}

func newConfig(opts ...Option) (*config, error) {
	result := &config{
		freshTTL: cache.DefaultFreshTTL,
		gcTTL:    cache.DefaultGCTTL,
	}
	for _, opt := range opts {
		opt(result)
	}
	if result.logger == nil {
		result.logger = logger.Default()
	}
	if result.metrics == nil {
		result.metrics = gmetric.New()
	}
	if result.dispatcher == nil {
		dispatchOpts := []dispatch.Option{dispatch.WithLogger(result.logger)}
		if result.endpoint != "" {
			dispatchOpts = append(dispatchOpts, dispatch.WithEndpoint(result.endpoint))
		}
		if result.client != nil {
			dispatchOpts = append(dispatchOpts, dispatch.WithClient(result.client))
		}
		result.dispatcher = dispatch.New(dispatchOpts...)
	}
	if result.store == nil {
		store, err := cache.NewStore(result.provider, result.gcTTL)
		if err != nil {
			return nil, err
		}
		result.store = store
	}
	return result, nil
}

//Option represents a service option
type Option func(*config)

//WithDispatcher sets a request dispatcher
func WithDispatcher(dispatcher dispatch.Service) Option {
	return func(c *config) {
		c.dispatcher = dispatcher
	}
}

//WithCacheStore sets a result cache store
func WithCacheStore(store cache.Store) Option {
	return func(c *config) {
		c.store = store
	}
}

//WithCacheProvider selects a registered cache store provider
func WithCacheProvider(provider string) Option {
	return func(c *config) {
		c.provider = provider
	}
}

//WithFreshTTL sets how long a cache entry serves without refetching
func WithFreshTTL(ttl time.Duration) Option {
	return func(c *config) {
		c.freshTTL = ttl
	}
}

//WithGCTTL sets how long an untouched cache entry survives
func WithGCTTL(ttl time.Duration) Option {
	return func(c *config) {
		c.gcTTL = ttl
	}
}

//WithLogger sets an event logger
func WithLogger(aLogger logger.Logger) Option {
	return func(c *config) {
		c.logger = logger.NewLogger(aLogger)
	}
}

//WithMetrics sets a metrics service
func WithMetrics(metrics *gmetric.Service) Option {
	return func(c *config) {
		c.metrics = metrics
	}
}

//WithEndpoint sets the data service base URL
func WithEndpoint(endpoint string) Option {
	return func(c *config) {
		c.endpoint = endpoint
	}
}

//WithHTTPClient sets the HTTP client used by the default dispatcher
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		c.client = client
	}
}
