// Package apierr is the error taxonomy shared by every HTTP-facing package.
package apierr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeUnavailable     Code = "UNAVAILABLE"
	CodeAlreadyReturned Code = "ALREADY_RETURNED"
	CodeConflict        Code = "CONFLICT"
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func ErrInvalid(msg string) *APIError         { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError        { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrUnavailable(msg string) *APIError     { return &APIError{Code: CodeUnavailable, Message: msg} }
func ErrAlreadyReturned(msg string) *APIError { return &APIError{Code: CodeAlreadyReturned, Message: msg} }
func ErrConflict(msg string) *APIError        { return &APIError{Code: CodeConflict, Message: msg} }
func ErrUnauthorized(msg string) *APIError    { return &APIError{Code: CodeUnauthorized, Message: msg} }
func ErrInternal(msg string) *APIError        { return &APIError{Code: CodeInternal, Message: msg} }

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var api *APIError
	return errors.As(err, &api) && api.Code == code
}

// ToHTTPStatus maps domain codes onto HTTP. Business-rule failures are all 400.
func ToHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument, CodeUnavailable, CodeAlreadyReturned, CodeConflict:
			return http.StatusBadRequest
		case CodeNotFound:
			return http.StatusNotFound
		case CodeUnauthorized:
			return http.StatusUnauthorized
		case CodeForbidden:
			return http.StatusForbidden
		}
	}
	return http.StatusInternalServerError
}

type ErrorDTO struct {
	Error struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func Body(code Code, msg string) ErrorDTO {
	var e ErrorDTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

// FromErr builds the response body. Unclassified errors never leak their text.
func FromErr(err error) ErrorDTO {
	var api *APIError
	if errors.As(err, &api) && api.Code != CodeInternal {
		return Body(api.Code, api.Message)
	}
	return Body(CodeInternal, "internal error")
}

// Write sends err as JSON and logs anything that maps to a 5xx.
func Write(c *gin.Context, err error) {
	status := ToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		slog.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"request_id", c.GetString("request_id"),
			"err", err,
		)
	}
	c.JSON(status, FromErr(err))
}

// BadRequest answers a binding failure.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Body(CodeInvalidArgument, msg))
}
