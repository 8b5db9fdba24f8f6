package errors

import (
	"context"
	stderrors "errors"
	"net/http"
)

// HTTPStatus maps an error to the status code the HTTP surfaces answer with
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case stderrors.Is(err, context.Canceled):
		return 499
	}
	switch GetCode(err) {
	case CodeValidationError, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidShape, CodeUnsupportedPayload:
		return http.StatusUnprocessableEntity
	case CodeRowCountMismatch, CodeColumnMismatch, CodeExternalService:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Body is the JSON error envelope of the HTTP surfaces
type Body struct {
	Code     string      `json:"code"`
	Message  string      `json:"error"`
	Field    string      `json:"field,omitempty"`
	Index    *int        `json:"index,omitempty"`
	Expected interface{} `json:"expected,omitempty"`
	Actual   interface{} `json:"actual,omitempty"`
}

// ToBody renders err for a client. Internal errors hide their cause.
func ToBody(err error) Body {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return Body{Code: CodeInternalError, Message: "internal error"}
	}
	b := Body{
		Code:     appErr.Code,
		Message:  appErr.Message,
		Field:    appErr.Field,
		Index:    appErr.Index,
		Expected: appErr.Expected,
		Actual:   appErr.Actual,
	}
	if appErr.Code == CodeInternalError || appErr.Code == CodeDatabaseError {
		b.Message = "internal error"
	}
	return b
}
