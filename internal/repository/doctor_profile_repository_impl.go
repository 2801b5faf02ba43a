package repository

import (
	"errors"

	"health-info-api/internal/domain/entity"
	domainRepo "health-info-api/internal/domain/repository"

	"gorm.io/gorm"
)

type doctorProfileRepository struct{}

func NewDoctorProfileRepository() domainRepo.DoctorProfileRepository {
	return &doctorProfileRepository{}
}

func (r *doctorProfileRepository) Create(db *gorm.DB, profile *entity.DoctorProfile) error {
	return db.Create(profile).Error
}

func (r *doctorProfileRepository) FindByUserID(db *gorm.DB, userID string) (*entity.DoctorProfile, error) {
	var profile entity.DoctorProfile
	err := db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *doctorProfileRepository) UpdateByUserID(db *gorm.DB, userID string, fields map[string]interface{}) error {
	return db.Model(&entity.DoctorProfile{}).Where("user_id = ?", userID).Updates(fields).Error
}
