package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// AuditLog records who changed what. UserID is the acting user, nil for
// anonymous flows such as password reset by token.
type AuditLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *string   `gorm:"type:varchar(50);index" json:"user_id,omitempty"`
	Action    string    `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata  JSON      `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// JSON maps a jsonb column to a map.
type JSON map[string]interface{}

// Value implements driver.Valuer.
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner.
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported JSONB source type %T", value)
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

const (
	AuditActionUserRegister       = "user.register"
	AuditActionUserVerify         = "user.verify"
	AuditActionProfileUpdate      = "user.profile_update"
	AuditActionPasswordChange     = "user.password_change"
	AuditActionPasswordReset      = "user.password_reset"
	AuditActionUpgradeToDoctor    = "user.upgrade_to_doctor"
	AuditActionProgramCreate      = "program.create"
	AuditActionProgramUpdate      = "program.update"
	AuditActionProgramDelete      = "program.delete"
	AuditActionProgramToggle      = "program.toggle"
	AuditActionEnrollmentCreate   = "enrollment.create"
	AuditActionEnrollmentUpdate   = "enrollment.update"
	AuditActionEnrollmentComplete = "enrollment.complete"
	AuditActionEnrollmentDelete   = "enrollment.delete"
)
