package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// BlogModel mirrors the 'blogs' table. Tags are stored as a jsonb array.
type BlogModel struct {
	ID         uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	AuthorID   uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Title      string                      `gorm:"type:varchar(200);not null"`
	Content    string                      `gorm:"type:text;not null"`
	CoverImage string                      `gorm:"type:text;not null"`
	Tags       datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Shares     int                         `gorm:"not null;default:0"`
	CreatedAt  time.Time                   `gorm:"index"`
	UpdatedAt  time.Time

	Author   *UserModel      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Likes    []BlogLikeModel `gorm:"foreignKey:BlogID;constraint:OnDelete:CASCADE"`
	Comments []CommentModel  `gorm:"foreignKey:BlogID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (BlogModel) TableName() string {
	return "blogs"
}

// BlogLikeModel mirrors the 'blog_likes' table. The composite key makes a like unique per user.
type BlogLikeModel struct {
	BlogID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (BlogLikeModel) TableName() string {
	return "blog_likes"
}

// CommentModel mirrors the 'blog_comments' table.
type CommentModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	BlogID    uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"type:uuid;not null"`
	Text      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (CommentModel) TableName() string {
	return "blog_comments"
}

// All lists every model for migrations and code generation.
func All() []any {
	return []any{
		&UserModel{},
		&SubscriptionModel{},
		&VerificationCodeModel{},
		&BlogModel{},
		&BlogLikeModel{},
		&CommentModel{},
	}
}
