package dispatch

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/drmoyassine/frontbase-query/compiler"
	"github.com/drmoyassine/frontbase-query/httputils"
	"github.com/drmoyassine/frontbase-query/logger"
	"github.com/drmoyassine/frontbase-query/shared"
	"github.com/francoispqt/gojay"
	"github.com/google/uuid"
)

const (
	executePath     = "/api/data/execute"
	requestIDHeader = "X-Request-ID"
	contentTypeJSON = "application/json"
	//DefaultTimeout bounds one attempt, there is no retry
	DefaultTimeout = 30 * time.Second

	maxErrorMessage = 512
)

//Service dispatches one compiled request and returns the raw response body.
//It is the single network boundary, callers own retries.
type Service interface {
	Do(ctx context.Context, request *compiler.Request) ([]byte, error)
}

type service struct {
	client   *http.Client
	endpoint string
	logger   *logger.Adapter
}

//Option customizes the dispatcher
type Option func(*service)

//WithClient sets the HTTP client
func WithClient(client *http.Client) Option {
	return func(s *service) {
		if client != nil {
			s.client = client
		}
	}
}

//WithEndpoint sets the data service base, the execute and table paths are
//resolved against it.
func WithEndpoint(endpoint string) Option {
	return func(s *service) {
		s.endpoint = strings.TrimSuffix(endpoint, "/")
	}
}

//WithLogger sets the event adapter
func WithLogger(adapter *logger.Adapter) Option {
	return func(s *service) {
		if adapter != nil {
			s.logger = adapter
		}
	}
}

//New creates a dispatcher
func New(opts ...Option) Service {
	result := &service{
		client: &http.Client{Timeout: DefaultTimeout},
		logger: logger.Default(),
	}
	for _, opt := range opts {
		opt(result)
	}
	return result
}

func (s *service) Do(ctx context.Context, request *compiler.Request) ([]byte, error) {
	if request.IsEmpty() {
		return nil, shared.NewUnconfiguredError("no protocol configured")
	}
	httpRequest, err := s.buildHTTPRequest(ctx, request)
	if err != nil {
		return nil, shared.NewTransportError(0, "%v", err)
	}
	started := time.Now()
	response, err := s.client.Do(httpRequest)
	if err != nil {
		s.logger.Dispatched(time.Since(started), httpRequest.URL.String(), 0, err)
		return nil, shared.NewTransportError(0, "%v", err)
	}
	data, err := httputils.ReadBody(response, httputils.BodyLimit)
	if err != nil {
		s.logger.Dispatched(time.Since(started), httpRequest.URL.String(), response.StatusCode, err)
		return nil, shared.NewTransportError(response.StatusCode, "%v", err)
	}
	s.logger.Dispatched(time.Since(started), httpRequest.URL.String(), response.StatusCode, nil)
	if !httputils.IsSuccess(response.StatusCode) {
		return nil, shared.NewTransportError(response.StatusCode, "%v", errorText(response, data))
	}
	return data, nil
}

func (s *service) buildHTTPRequest(ctx context.Context, request *compiler.Request) (*http.Request, error) {
	if request.Mode == compiler.ModeSimple {
		httpRequest, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+request.URL, nil)
		if err != nil {
			return nil, err
		}
		applyHeaders(httpRequest, request.Headers)
		httpRequest.Header.Set(requestIDHeader, uuid.New().String())
		return httpRequest, nil
	}
	data, err := gojay.MarshalJSONObject(newEnvelope(request))
	if err != nil {
		return nil, err
	}
	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+executePath, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpRequest.Header.Set("Content-Type", contentTypeJSON)
	httpRequest.Header.Set(requestIDHeader, uuid.New().String())
	return httpRequest, nil
}

func applyHeaders(httpRequest *http.Request, headers map[string]string) {
	for name, value := range headers {
		httpRequest.Header.Set(name, value)
	}
}

func errorText(response *http.Response, data []byte) string {
	message := strings.TrimSpace(string(data))
	if message == "" {
		return response.Status
	}
	if len(message) > maxErrorMessage {
		message = message[:maxErrorMessage]
	}
	return message
}
