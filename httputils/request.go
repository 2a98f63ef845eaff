package httputils

import (
	"io"
	"net/http"
)

//BodyLimit caps how much of a data service response is read into memory.
const BodyLimit = 16 * 1024 * 1024

//IsSuccess returns true for a 2xx status code
func IsSuccess(statusCode int) bool {
	return statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices
}

//ReadBody drains up to limit bytes of the response body and closes it
func ReadBody(response *http.Response, limit int64) ([]byte, error) {
	if response == nil || response.Body == nil {
		return nil, nil
	}
	defer func() {
		_ = response.Body.Close()
	}()
	data, err := io.ReadAll(io.LimitReader(response.Body, limit))
	if err != nil {
		return nil, err
	}
	return data, nil
}
