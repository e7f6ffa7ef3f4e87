package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountSecurityModel mirrors the 'auth_sessions' table, one row per user.
// Login attempts read-modify-write this row under a row-level lock.
type AccountSecurityModel struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID             uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"`
	FailedAttempts     int        `gorm:"not null;default:0"`
	LockUntil          *time.Time `gorm:"index"`
	LastLogin          *time.Time
	LastFailedLogin    *time.Time
	LastLoginIP        string `gorm:"type:varchar(45)"`
	LastLoginUserAgent string `gorm:"type:varchar(512)"`
	DeviceType         string `gorm:"type:varchar(50)"`
	Browser            string `gorm:"type:varchar(100)"`
	OS                 string `gorm:"type:varchar(100)"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	User *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (AccountSecurityModel) TableName() string {
	return "auth_sessions"
}
