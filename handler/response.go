package handler

import (
	"io"
	"net/http"

	"bff-gateway/domain"
	"bff-gateway/httperrors"
	"bff-gateway/request"

	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/json"
)

func writeJson(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		return errors.WithMessage(err, "write json response")
	}
	return nil
}

// readBody returns the body already consumed by validation or reads it from the request.
func readBody(ctx *request.Context) ([]byte, error) {
	body, ok := ctx.Body()
	if ok {
		return body, nil
	}
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return nil, errors.WithMessage(err, "read request body")
	}
	ctx.SetBody(body)
	return body, nil
}

func decodeBody(ctx *request.Context, v any) error {
	body, err := readBody(ctx)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	err = json.Unmarshal(body, v)
	if err != nil {
		return badRequest("malformed json body", errors.WithMessage(err, "unmarshal request body"))
	}
	return nil
}

func badRequest(message string, err error) error {
	return httperrors.New(http.StatusBadRequest, domain.ErrCodeValidationFailed, message, err)
}
