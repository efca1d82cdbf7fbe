package model

import (
	"time"

	"github.com/google/uuid"
)

// VerificationCodeModel mirrors the 'verification_codes' table. Only the bcrypt hash
// of a code is stored.
type VerificationCodeModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"type:varchar(255);not null;index:idx_verification_codes_email_created,priority:1"`
	CodeHash  string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"not null;index:idx_verification_codes_email_created,priority:2"`
}

// TableName explicitly sets the table name for GORM.
func (VerificationCodeModel) TableName() string {
	return "verification_codes"
}
