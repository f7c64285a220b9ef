package httperrors

import (
	"net/http"

	"github.com/txix-open/isp-kit/json"
)

type HttpError struct {
	statusCode  int
	code        string
	userMessage string
	err         error
}

func New(statusCode int, code string, userMessage string, internalError error) HttpError {
	return HttpError{
		statusCode:  statusCode,
		code:        code,
		userMessage: userMessage,
		err:         internalError,
	}
}

func (e HttpError) Error() string {
	return e.err.Error()
}

func (e HttpError) Unwrap() error {
	return e.err
}

func (e HttpError) StatusCode() int {
	return e.statusCode
}

func (e HttpError) Code() string {
	return e.code
}

func (e HttpError) WriteError(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.statusCode)
	data := map[string]string{
		"error":   e.code,
		"message": e.userMessage,
	}
	return json.NewEncoder(w).Encode(data)
}
