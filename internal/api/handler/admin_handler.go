package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studyforge/learning-api/internal/core/ports"
)

type AdminHandler struct {
	service ports.AccountService
}

func NewAdminHandler(service ports.AccountService) *AdminHandler {
	return &AdminHandler{service: service}
}

// ListUsers returns one page of accounts, newest first.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     CookieAuth
// @Param        page   query     int  false  "Page number (1-based)"  default(1)
// @Param        limit  query     int  false  "Page size, capped at 100"  default(20)
// @Success      200    {object}  listUsersResponse
// @Failure      400    {object}  messageResponse
// @Failure      401    {object}  messageResponse
// @Failure      403    {object}  messageResponse
// @Failure      500    {object}  map[string]string
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	var q listUsersQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid pagination parameters.")
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	result, err := h.service.ListUsers(c.Request().Context(), ports.ListUsersFilter{Page: q.Page, Limit: q.Limit})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toListUsersResponse(result))
}
