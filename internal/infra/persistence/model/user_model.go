package model

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. IDs are UUIDv7 assigned by the application.
type UserModel struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Email            string         `gorm:"type:varchar(255);uniqueIndex:users_email_key;not null"`
	Username         string         `gorm:"type:varchar(100);not null"`
	PasswordHash     string         `gorm:"type:varchar(255);not null"`
	RefreshTokenHash sql.NullString `gorm:"type:varchar(255)"`
	Version          int64          `gorm:"not null;default:1"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
