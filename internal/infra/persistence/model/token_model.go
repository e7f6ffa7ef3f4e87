package model

import (
	"time"

	"github.com/google/uuid"
)

// AuthTokenModel mirrors the 'auth_tokens' table. Metadata is stored as raw
// JSON; the repository handles the (de)serialization.
type AuthTokenModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Type      string    `gorm:"type:varchar(30);not null"`
	Value     string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	Revoked   bool      `gorm:"not null;default:false"`
	RevokedAt *time.Time
	IPAddress string `gorm:"type:varchar(45)"`
	UserAgent string `gorm:"type:varchar(512)"`
	Metadata  []byte `gorm:"type:jsonb"`
	CreatedAt time.Time

	User *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (AuthTokenModel) TableName() string {
	return "auth_tokens"
}
