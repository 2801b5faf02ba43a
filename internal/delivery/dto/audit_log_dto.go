package dto

import (
	"time"

	"health-info-api/internal/domain/entity"
)

type AuditLogResponse struct {
	ID        int64                  `json:"id"`
	UserID    *string                `json:"userId"`
	User      *EnrollmentUserSummary `json:"user,omitempty"`
	Action    string                 `json:"action"`
	Metadata  entity.JSON            `json:"metadata"`
	CreatedAt time.Time              `json:"createdAt"`
}
