package handler

import (
	"github.com/studyforge/learning-api/internal/core/domain"
	"github.com/studyforge/learning-api/internal/core/ports"
)

// --- Request → Service input ---

func toProgressChange(req progressRequest) ports.ProgressChange {
	return ports.ProgressChange{
		Level:  req.Level,
		XP:     req.XP,
		Badges: req.Badges,
	}
}

// --- Domain → Response ---

func toUserResponse(u *domain.User) userResponse {
	badges := u.Badges
	if badges == nil {
		badges = []string{}
	}
	return userResponse{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		Role:             u.Role,
		Level:            u.Level,
		XP:               u.XP,
		Badges:           badges,
		AIUsageCount:     u.AIUsageCount,
		AIUsageLastReset: u.AIUsageLastReset,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

func toListUsersResponse(r *ports.ListUsersResult) listUsersResponse {
	items := make([]userResponse, 0, len(r.Items))
	for _, u := range r.Items {
		items = append(items, toUserResponse(u))
	}
	return listUsersResponse{
		Items:      items,
		Total:      r.Total,
		Page:       r.Page,
		Limit:      r.Limit,
		TotalPages: r.TotalPages,
	}
}
