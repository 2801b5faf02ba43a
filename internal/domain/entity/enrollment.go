package entity

import "time"

const (
	EnrollmentStatusActive    = "active"
	EnrollmentStatusCompleted = "completed"
	EnrollmentStatusInactive  = "inactive"
)

// Enrollment tracks a user's progress through a health program. The
// (user_id, program_id) pair is unique.
type Enrollment struct {
	ID             int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         string     `gorm:"type:varchar(50);not null;uniqueIndex:uq_enrollments_user_program" json:"user_id"`
	ProgramID      string     `gorm:"type:varchar(50);not null;uniqueIndex:uq_enrollments_user_program;index" json:"program_id"`
	EnrolledAt     time.Time  `gorm:"not null" json:"enrolled_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	Status         string     `gorm:"type:varchar(20);not null;default:active" json:"status"`
	Progress       int        `gorm:"not null;default:0" json:"progress"`
	Notes          *string    `gorm:"type:text" json:"notes,omitempty"`
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`

	// Relationships
	User    *User          `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
	Program *HealthProgram `gorm:"foreignKey:ProgramID;references:ProgramID" json:"program,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

func (e *Enrollment) IsCompleted() bool {
	return e.Status == EnrollmentStatusCompleted
}
