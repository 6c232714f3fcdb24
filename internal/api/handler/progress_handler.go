package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studyforge/learning-api/internal/core/ports"
)

type ProgressHandler struct {
	service ports.AccountService
}

func NewProgressHandler(service ports.AccountService) *ProgressHandler {
	return &ProgressHandler{service: service}
}

// Update applies a partial progression update to the caller's account.
//
// @Summary      Update learning progress
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      progressRequest  true  "Any of level, xp, badges"
// @Success      200   {object}  userEnvelope
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /api/user/progress [patch]
func (h *ProgressHandler) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req progressRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.UpdateProgress(c.Request().Context(), userID, toProgressChange(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userEnvelope{Message: "Progress updated.", User: toUserResponse(user)})
}
