package repository

import (
	"errors"

	"health-info-api/internal/domain/entity"
	domainRepo "health-info-api/internal/domain/repository"

	"gorm.io/gorm"
)

type enrollmentRepository struct{}

func NewEnrollmentRepository() domainRepo.EnrollmentRepository {
	return &enrollmentRepository{}
}

func (r *enrollmentRepository) Create(db *gorm.DB, enrollment *entity.Enrollment) error {
	return db.Omit("User", "Program").Create(enrollment).Error
}

func (r *enrollmentRepository) FindByID(db *gorm.DB, id int64) (*entity.Enrollment, error) {
	var enrollment entity.Enrollment
	err := db.Preload("User").Preload("Program").Where("id = ?", id).First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepository) FindByUserAndProgram(db *gorm.DB, userID, programID string) (*entity.Enrollment, error) {
	var enrollment entity.Enrollment
	err := db.Where("user_id = ? AND program_id = ?", userID, programID).First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepository) FindAll(db *gorm.DB) ([]entity.Enrollment, error) {
	var enrollments []entity.Enrollment
	err := db.Preload("User").Preload("Program").Order("enrolled_at DESC").Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *enrollmentRepository) FindByUserID(db *gorm.DB, userID string) ([]entity.Enrollment, error) {
	var enrollments []entity.Enrollment
	err := db.Preload("Program").Where("user_id = ?", userID).Order("enrolled_at DESC").Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *enrollmentRepository) FindByProgramID(db *gorm.DB, programID string) ([]entity.Enrollment, error) {
	var enrollments []entity.Enrollment
	err := db.Preload("User").Where("program_id = ?", programID).Order("enrolled_at DESC").Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *enrollmentRepository) Update(db *gorm.DB, id int64, fields map[string]interface{}) error {
	return db.Model(&entity.Enrollment{}).Where("id = ?", id).Updates(fields).Error
}

func (r *enrollmentRepository) Delete(db *gorm.DB, id int64) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Enrollment{})
	return result.RowsAffected, result.Error
}
