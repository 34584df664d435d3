package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"orders/internal/generated/servers"
	"orders/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// apiErrorFor maps an error kind to its status and code. Unknown errors become
// a 500 with a fixed message so internals never leak to the client.
func apiErrorFor(err error) (int, servers.ApiErrorCode, string) {
	var (
		notFound *errs.ObjectNotFoundError
		conflict *errs.ConflictError
		httpErr  *echo.HTTPError
	)

	switch {
	case errs.IsValidation(err):
		return http.StatusBadRequest, servers.ApiErrorCodeVALIDATIONERROR, "Validation failed"
	case errors.As(err, &notFound):
		return http.StatusNotFound, servers.ApiErrorCodeORDERNOTFOUND, fmt.Sprintf("Order not found: %v", notFound.ID)
	case errors.As(err, &conflict):
		return http.StatusConflict, servers.ApiErrorCodeCONFLICT, conflict.Reason
	case errors.Is(err, errs.ErrKeyGenerationFailed):
		return http.StatusInternalServerError, servers.ApiErrorCodeKEYGENERATIONFAILED, "Failed to generate idempotency key"
	case errors.As(err, &httpErr):
		return httpErrorFor(httpErr)
	default:
		return http.StatusInternalServerError, servers.ApiErrorCodeINTERNALSERVERERROR, "Unexpected error"
	}
}

// httpErrorFor covers errors raised by echo itself and the parameter binders.
func httpErrorFor(httpErr *echo.HTTPError) (int, servers.ApiErrorCode, string) {
	message := http.StatusText(httpErr.Code)
	if m, ok := httpErr.Message.(string); ok {
		message = m
	}

	switch {
	case httpErr.Code == http.StatusNotFound:
		return httpErr.Code, servers.ApiErrorCodeORDERNOTFOUND, message
	case httpErr.Code < http.StatusInternalServerError:
		return httpErr.Code, servers.ApiErrorCodeVALIDATIONERROR, message
	default:
		return httpErr.Code, servers.ApiErrorCodeINTERNALSERVERERROR, message
	}
}

// details lists each joined validation failure separately.
func details(err error) *[]string {
	if !errs.IsValidation(err) {
		return nil
	}

	out := flatten(err, nil)
	return &out
}

func flatten(err error, out []string) []string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = flatten(e, out)
		}
		return out
	}
	return append(out, err.Error())
}

// NewErrorHandler writes every error returned by a handler as an ApiError.
func NewErrorHandler(log *zap.Logger, now func() time.Time) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, code, message := apiErrorFor(err)
		if status >= http.StatusInternalServerError {
			log.Error("Request failed",
				zap.String("path", c.Request().URL.Path),
				zap.String("code", string(code)),
				zap.Error(err),
			)
		}

		body := servers.ApiError{
			Timestamp: now().UTC(),
			Path:      c.Request().URL.Path,
			Code:      code,
			Message:   message,
			Details:   details(err),
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			log.Error("Failed to write error response", zap.Error(writeErr))
		}
	}
}
