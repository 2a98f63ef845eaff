package httputils

type ErrorStatusCoder interface {
	ErrorStatusCode() int
}

type ErrorMessager interface {
	ErrorMessage() string
}

//BuildErrorResponse extracts a user facing status code and message from err
func BuildErrorResponse(err error) (statusCode int, errorMessage string) {
	statusCode = 400
	errorMessage = ""

	messager, ok := err.(ErrorMessager)
	if ok {
		errorMessage = messager.ErrorMessage()
	} else if err != nil {
		errorMessage = err.Error()
	}

	coder, ok := err.(ErrorStatusCoder)
	if ok {
		statusCode = coder.ErrorStatusCode()
	}

	return statusCode, errorMessage
}
