package entity

// DoctorProfile is created when a client is upgraded to the doctor role.
type DoctorProfile struct {
	ID             int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         string `gorm:"type:varchar(50);uniqueIndex;not null" json:"user_id"`
	LicenseNumber  string `gorm:"type:varchar(50);uniqueIndex;not null" json:"license_number"`
	Specialization string `gorm:"type:varchar(100);not null" json:"specialization"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}
