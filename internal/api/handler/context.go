package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studyforge/learning-api/internal/api/middleware"
	"github.com/studyforge/learning-api/internal/core/domain"
)

// errInvalidBody is returned when a request body cannot be decoded.
var errInvalidBody = echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")

// currentUserID returns the user id injected by middleware.Auth. An empty id
// means the route was mounted without the middleware; treat it as no session.
func currentUserID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.ContextUserID).(string)
	if id == "" {
		return "", domain.ErrMissingToken
	}
	return id, nil
}
