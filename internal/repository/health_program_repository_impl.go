package repository

import (
	"errors"

	"health-info-api/internal/domain/entity"
	domainRepo "health-info-api/internal/domain/repository"

	"gorm.io/gorm"
)

type healthProgramRepository struct{}

func NewHealthProgramRepository() domainRepo.HealthProgramRepository {
	return &healthProgramRepository{}
}

func (r *healthProgramRepository) Create(db *gorm.DB, program *entity.HealthProgram) error {
	return db.Create(program).Error
}

func (r *healthProgramRepository) FindByID(db *gorm.DB, programID string) (*entity.HealthProgram, error) {
	var program entity.HealthProgram
	err := db.Where("program_id = ?", programID).First(&program).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &program, nil
}

func (r *healthProgramRepository) FindAll(db *gorm.DB, filter domainRepo.ProgramFilter) ([]entity.HealthProgram, error) {
	var programs []entity.HealthProgram

	query := db
	if filter.Difficulty != nil {
		query = query.Where("difficulty = ?", *filter.Difficulty)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	if err := query.Order("created_at DESC").Find(&programs).Error; err != nil {
		return nil, err
	}
	return programs, nil
}

func (r *healthProgramRepository) Update(db *gorm.DB, programID string, fields map[string]interface{}) error {
	return db.Model(&entity.HealthProgram{}).Where("program_id = ?", programID).Updates(fields).Error
}

func (r *healthProgramRepository) Delete(db *gorm.DB, programID string) (int64, error) {
	result := db.Where("program_id = ?", programID).Delete(&entity.HealthProgram{})
	return result.RowsAffected, result.Error
}
