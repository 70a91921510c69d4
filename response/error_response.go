package response

import (
	"context"
	"encoding/json"
	"event-tickets-backend/logger"
	"fmt"
	"net/http"
)

type ErrorResponse struct {
	StatusCode int       `json:"-"`
	Err        ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (r ErrorResponse) Error() string {
	return fmt.Sprintf("StatusCode: %d, Code: %s, Message: %s", r.StatusCode, r.Err.Code, r.Err.Message)
}

func (r ErrorResponse) Send(ctx context.Context, w http.ResponseWriter) {
	logger.Errorf(ctx, r.Error())
	w.WriteHeader(r.StatusCode)
	json.NewEncoder(w).Encode(r)
}

func BadRequest(message string) ErrorResponse {
	return ErrorResponse{
		StatusCode: http.StatusBadRequest,
		Err:        ErrorBody{Code: "BAD_REQUEST", Message: message},
	}
}

func Unauthorized(message string) ErrorResponse {
	if message == "" {
		message = "Authentication required"
	}
	return ErrorResponse{
		StatusCode: http.StatusUnauthorized,
		Err:        ErrorBody{Code: "UNAUTHORIZED", Message: message},
	}
}

func Forbidden(message string) ErrorResponse {
	if message == "" {
		message = "Forbidden"
	}
	return ErrorResponse{
		StatusCode: http.StatusForbidden,
		Err:        ErrorBody{Code: "FORBIDDEN", Message: message},
	}
}

func ResourceNotFound(message string) ErrorResponse {
	if message == "" {
		message = "Resource not found"
	}
	return ErrorResponse{
		StatusCode: http.StatusNotFound,
		Err:        ErrorBody{Code: "NOT_FOUND", Message: message},
	}
}

func Conflict(message string) ErrorResponse {
	return ErrorResponse{
		StatusCode: http.StatusConflict,
		Err:        ErrorBody{Code: "CONFLICT", Message: message},
	}
}

func SomethingWrong() ErrorResponse {
	return ErrorResponse{
		StatusCode: http.StatusInternalServerError,
		Err:        ErrorBody{Code: "INTERNAL_ERROR", Message: "Sorry, Something went wrong"},
	}
}
