package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studyforge/learning-api/internal/core/ports"
)

// resetRequestedMessage is identical for registered and unknown emails.
const resetRequestedMessage = "If a user with that email exists, a reset link will be sent."

type PasswordHandler struct {
	service ports.PasswordResetService
}

func NewPasswordHandler(service ports.PasswordResetService) *PasswordHandler {
	return &PasswordHandler{service: service}
}

// Request starts a password reset.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/reset-password/request [post]
func (h *PasswordHandler) Request(c echo.Context) error {
	var req resetRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}

	if err := h.service.RequestReset(c.Request().Context(), req.Email); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: resetRequestedMessage})
}

// Confirm redeems a reset token and sets a new password.
//
// @Summary      Confirm a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetConfirmRequest  true  "Reset token and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/reset-password/confirm [post]
func (h *PasswordHandler) Confirm(c echo.Context) error {
	var req resetConfirmRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}

	if err := h.service.ConfirmReset(c.Request().Context(), req.Token, req.Password); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Password has been reset successfully."})
}
