package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studyforge/learning-api/internal/core/domain"
	"github.com/studyforge/learning-api/internal/core/ports"
)

type UsageHandler struct {
	service ports.UsageService
}

func NewUsageHandler(service ports.UsageService) *UsageHandler {
	return &UsageHandler{service: service}
}

// Consume records one AI operation against the caller's daily quota.
//
// @Summary      Consume one AI usage unit
// @Tags         usage
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  usageResponse
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Failure      429  {object}  usageResponse
// @Failure      500  {object}  map[string]string
// @Router       /api/usage/ai [post]
func (h *UsageHandler) Consume(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	user, status, err := h.service.Consume(c.Request().Context(), userID)
	if errors.Is(err, domain.ErrQuotaExceeded) {
		return c.JSON(http.StatusTooManyRequests, usageResponse{
			Message:      domain.ErrQuotaExceeded.Message,
			LimitReached: true,
			Usage:        &usageCounter{Count: status.Count, Limit: status.Limit},
		})
	}
	if err != nil {
		return err
	}

	resp := toUserResponse(user)
	return c.JSON(http.StatusOK, usageResponse{
		Message:      "Usage updated.",
		LimitReached: false,
		User:         &resp,
	})
}
