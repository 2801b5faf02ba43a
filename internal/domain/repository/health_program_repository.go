package repository

import (
	"health-info-api/internal/domain/entity"

	"gorm.io/gorm"
)

// ProgramFilter holds the optional catalog filters. Nil fields are ignored.
type ProgramFilter struct {
	Difficulty *string
	IsActive   *bool
}

type HealthProgramRepository interface {
	Create(db *gorm.DB, program *entity.HealthProgram) error
	FindByID(db *gorm.DB, programID string) (*entity.HealthProgram, error)
	FindAll(db *gorm.DB, filter ProgramFilter) ([]entity.HealthProgram, error)
	Update(db *gorm.DB, programID string, fields map[string]interface{}) error
	Delete(db *gorm.DB, programID string) (int64, error)
}
