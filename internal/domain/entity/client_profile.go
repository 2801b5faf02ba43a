package entity

// ClientProfile holds the personal data captured at registration.
type ClientProfile struct {
	ID        int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string  `gorm:"type:varchar(50);uniqueIndex;not null" json:"user_id"`
	FirstName string  `gorm:"type:varchar(50);not null" json:"first_name"`
	LastName  string  `gorm:"type:varchar(50);not null" json:"last_name"`
	Gender    string  `gorm:"type:varchar(20);not null" json:"gender"`
	Phone     *string `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Address   *string `gorm:"type:text" json:"address,omitempty"`
}

func (ClientProfile) TableName() string {
	return "client_profiles"
}
