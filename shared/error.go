package shared

import (
	"fmt"
	"github.com/pkg/errors"
	"net/http"
)

//Kind classifies a query failure
type Kind string

const (
	//KindUnconfigured indicates a binding with no usable protocol
	KindUnconfigured Kind = "unconfigured"
	//KindTransport indicates a network or non-2xx failure
	KindTransport Kind = "transport"
	//KindEnvelope indicates a well-delivered response carrying success=false or an undecodable payload
	KindEnvelope Kind = "envelope"
	//KindOptions indicates a filter option lookup failure
	KindOptions Kind = "options"
)

//QueryError represents a classified data request failure
type QueryError struct {
	Kind       Kind
	Message    string
	StatusCode int
}

//Error returns error message
func (e *QueryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%v: %v (status %v)", e.Kind, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Message)
}

//ErrorMessage returns user facing message
func (e *QueryError) ErrorMessage() string {
	return e.Message
}

//ErrorStatusCode returns HTTP status associated with the failure
func (e *QueryError) ErrorStatusCode() int {
	if e.StatusCode == 0 {
		return http.StatusBadRequest
	}
	return e.StatusCode
}

//NewTransportError creates a transport failure
func NewTransportError(statusCode int, format string, args ...interface{}) *QueryError {
	return &QueryError{Kind: KindTransport, StatusCode: statusCode, Message: fmt.Sprintf(format, args...)}
}

//NewEnvelopeError creates an envelope failure
func NewEnvelopeError(format string, args ...interface{}) *QueryError {
	return &QueryError{Kind: KindEnvelope, Message: fmt.Sprintf(format, args...)}
}

//NewOptionsError creates a filter options failure
func NewOptionsError(format string, args ...interface{}) *QueryError {
	return &QueryError{Kind: KindOptions, Message: fmt.Sprintf(format, args...)}
}

//NewUnconfiguredError creates an unconfigured binding failure
func NewUnconfiguredError(format string, args ...interface{}) *QueryError {
	return &QueryError{Kind: KindUnconfigured, Message: fmt.Sprintf(format, args...)}
}

//AsQueryError returns err as *QueryError unwrapping as needed, or nil
func AsQueryError(err error) *QueryError {
	if err == nil {
		return nil
	}
	if queryErr, ok := errors.Cause(err).(*QueryError); ok {
		return queryErr
	}
	return nil
}
