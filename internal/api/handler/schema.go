package handler

import "time"

// --- Request types ---

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetRequest struct {
	Email string `json:"email"`
}

type resetConfirmRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type progressRequest struct {
	Level  *int     `json:"level"  validate:"omitempty,min=1"`
	XP     *int     `json:"xp"     validate:"omitempty,min=0"`
	Badges []string `json:"badges" validate:"omitempty,max=100,dive,required,max=64"`
}

type listUsersQuery struct {
	Page  int `query:"page"  validate:"omitempty,min=1"`
	Limit int `query:"limit" validate:"omitempty,min=1"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract does not follow
// internal changes to domain.User.

type userResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Role             string    `json:"role"`
	Level            int       `json:"level"`
	XP               int       `json:"xp"`
	Badges           []string  `json:"badges"`
	AIUsageCount     int       `json:"aiUsageCount"`
	AIUsageLastReset time.Time `json:"aiUsageLastReset"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type signupResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type userEnvelope struct {
	Message string       `json:"message,omitempty"`
	User    userResponse `json:"user"`
}

type usageResponse struct {
	Message      string        `json:"message"`
	LimitReached bool          `json:"limitReached"`
	User         *userResponse `json:"user,omitempty"`
	Usage        *usageCounter `json:"usage,omitempty"`
}

type usageCounter struct {
	Count int `json:"count"`
	Limit int `json:"limit"`
}

type listUsersResponse struct {
	Items      []userResponse `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
}
