package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the gorm model backing entities.User. The unique indexes on
// email and username are the authoritative uniqueness enforcement; the
// application-level existence checks only produce friendlier errors.
type User struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username              string    `gorm:"type:varchar(150);uniqueIndex;not null"`
	Email                 string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash          string    `gorm:"type:varchar(255);not null"`
	IsEmailVerified       bool      `gorm:"not null;default:false"`
	EmailVerificationCode string    `gorm:"type:varchar(6)"`
	CodeIssuedAt          *time.Time
	ParentEmail           *string `gorm:"type:varchar(255)"`
	ChefStarName          *string `gorm:"type:varchar(100)"`
	AgeGroup              *string `gorm:"type:varchar(10)"`
	IsParentApproved      bool    `gorm:"not null;default:false"`
	VerificationToken     *string `gorm:"type:uuid;index"`
	TokenVersion          int     `gorm:"not null;default:0"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
	DeletedAt             gorm.DeletedAt `gorm:"index"`
}
