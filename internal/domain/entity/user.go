package entity

import "time"

// User is the root identity record. The role decides which profile row is
// the active one.
type User struct {
	UserID                     string     `gorm:"column:user_id;type:varchar(50);primaryKey" json:"user_id"`
	Email                      string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	PasswordHash               string     `gorm:"type:text;not null" json:"-"`
	Role                       string     `gorm:"type:varchar(20);not null;default:client;index" json:"role"`
	ImageURL                   *string    `gorm:"type:text" json:"image_url,omitempty"`
	IsActive                   bool       `gorm:"not null;default:true" json:"is_active"`
	IsVerified                 bool       `gorm:"not null;default:false" json:"is_verified"`
	VerificationToken          *string    `gorm:"type:varchar(100);index" json:"-"`
	VerificationTokenExpiresAt *time.Time `json:"-"`
	PasswordResetToken         *string    `gorm:"type:varchar(100);index" json:"-"`
	PasswordResetExpiresAt     *time.Time `json:"-"`
	CreatedAt                  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	ClientProfile *ClientProfile `gorm:"foreignKey:UserID;references:UserID" json:"client_profile,omitempty"`
	DoctorProfile *DoctorProfile `gorm:"foreignKey:UserID;references:UserID" json:"doctor_profile,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// ActiveProfile returns the profile matching the current role, or nil for
// admins and users whose profile row was not loaded.
func (u *User) ActiveProfile() any {
	switch u.Role {
	case RoleClient:
		if u.ClientProfile != nil {
			return u.ClientProfile
		}
	case RoleDoctor:
		if u.DoctorProfile != nil {
			return u.DoctorProfile
		}
	}
	return nil
}
