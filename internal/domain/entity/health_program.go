package entity

import "time"

const (
	DifficultyBeginner     = "Beginner"
	DifficultyIntermediate = "Intermediate"
	DifficultyAdvanced     = "Advanced"
)

// HealthProgram is a catalog entry users can enroll in.
type HealthProgram struct {
	ProgramID   string    `gorm:"column:program_id;type:varchar(50);primaryKey" json:"program_id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	ImageURL    *string   `gorm:"type:text" json:"image_url,omitempty"`
	Duration    *string   `gorm:"type:varchar(50)" json:"duration,omitempty"`
	Difficulty  *string   `gorm:"type:varchar(20);index" json:"difficulty,omitempty"`
	IsActive    bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (HealthProgram) TableName() string {
	return "health_programs"
}

func IsValidDifficulty(d string) bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}
