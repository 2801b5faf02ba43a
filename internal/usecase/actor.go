package usecase

import "health-info-api/internal/domain/entity"

// Actor is the authenticated caller on whose behalf an operation runs.
type Actor struct {
	UserID string
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == entity.RoleAdmin
}

// CanAccessUser reports whether the actor may act on data owned by userID.
func (a Actor) CanAccessUser(userID string) bool {
	return a.IsAdmin() || (a.UserID != "" && a.UserID == userID)
}

func (a Actor) id() *string {
	if a.UserID == "" {
		return nil
	}
	id := a.UserID
	return &id
}
