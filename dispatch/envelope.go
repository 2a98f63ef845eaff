package dispatch

import (
	"github.com/drmoyassine/frontbase-query/compiler"
	"github.com/francoispqt/gojay"
)

//envelope wraps a compiled request for the execute endpoint, the data service
//replays the inner request against the actual backend.
type envelope struct {
	request *compiler.Request
}

func newEnvelope(request *compiler.Request) *envelope {
	return &envelope{request: request}
}

func (e *envelope) MarshalJSONObject(enc *gojay.Encoder) {
	enc.ObjectKey("dataRequest", e.request)
}

func (e *envelope) IsNil() bool {
	return e == nil || e.request == nil
}
