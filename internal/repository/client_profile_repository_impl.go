package repository

import (
	"errors"

	"health-info-api/internal/domain/entity"
	domainRepo "health-info-api/internal/domain/repository"

	"gorm.io/gorm"
)

type clientProfileRepository struct{}

func NewClientProfileRepository() domainRepo.ClientProfileRepository {
	return &clientProfileRepository{}
}

func (r *clientProfileRepository) Create(db *gorm.DB, profile *entity.ClientProfile) error {
	return db.Create(profile).Error
}

func (r *clientProfileRepository) FindByUserID(db *gorm.DB, userID string) (*entity.ClientProfile, error) {
	var profile entity.ClientProfile
	err := db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *clientProfileRepository) UpdateByUserID(db *gorm.DB, userID string, fields map[string]interface{}) error {
	return db.Model(&entity.ClientProfile{}).Where("user_id = ?", userID).Updates(fields).Error
}
