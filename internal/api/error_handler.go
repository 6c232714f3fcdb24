package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/studyforge/learning-api/internal/core/domain"
)

const internalErrorMessage = "Internal server error."

// messageResponse is the envelope for every client-facing failure.
type messageResponse struct {
	Message string `json:"message"`
}

// internalErrorResponse adds a safe summary of what failed.
type internalErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to their HTTP status and exact message.
//   - Passes echo's own errors (404 from the router, bind failures) through.
//   - Logs anything else and answers 500 with a safe summary.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			de  *domain.Error
			he  *echo.HTTPError
			ie  *domain.InternalError
			out error
		)
		switch {
		case errors.As(err, &de):
			out = respond(c, statusFor(de.Kind), messageResponse{Message: de.Message})
		case errors.As(err, &he):
			out = respond(c, he.Code, messageResponse{Message: fmt.Sprintf("%v", he.Message)})
		default:
			summary := "unexpected error"
			if errors.As(err, &ie) {
				summary = ie.Summary
			}
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Msg("unhandled error")
			out = respond(c, http.StatusInternalServerError, internalErrorResponse{
				Message: internalErrorMessage,
				Error:   summary,
			})
		}
		if out != nil {
			log.Warn().Err(out).Msg("failed to write error response")
		}
	}
}

func respond(c echo.Context, code int, body any) error {
	if c.Request().Method == http.MethodHead {
		return c.NoContent(code)
	}
	return c.JSON(code, body)
}

func statusFor(k domain.Kind) int {
	switch k {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindQuotaExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
