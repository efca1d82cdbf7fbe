package entity

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Blog is a post written by a single author.
type Blog struct {
	ID         uuid.UUID
	AuthorID   uuid.UUID
	Author     *User // Populated by the use case layer for responses, nil otherwise.
	Title      string
	Content    string
	CoverImage string
	Tags       []string
	Likes      []uuid.UUID // IDs of users who liked the post, at most once each.
	Comments   []*Comment  // Stored in insertion order.
	Shares     int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsOwnedBy reports whether userID authored the blog.
func (b *Blog) IsOwnedBy(userID uuid.UUID) bool {
	return b.AuthorID == userID
}

// IsLikedBy reports whether userID currently likes the blog.
func (b *Blog) IsLikedBy(userID uuid.UUID) bool {
	return slices.Contains(b.Likes, userID)
}

// FindComment returns the comment with the given ID or nil.
func (b *Blog) FindComment(commentID uuid.UUID) *Comment {
	for _, comment := range b.Comments {
		if comment.ID == commentID {
			return comment
		}
	}

	return nil
}

// CommentsNewestFirst returns the comments ordered from most to least recent.
func (b *Blog) CommentsNewestFirst() []*Comment {
	out := slices.Clone(b.Comments)
	slices.Reverse(out)

	return out
}

// Comment is a remark left on a blog by a user.
type Comment struct {
	ID        uuid.UUID
	BlogID    uuid.UUID
	UserID    uuid.UUID
	User      *User // Populated for responses, nil otherwise.
	Text      string
	CreatedAt time.Time
}

// IsOwnedBy reports whether userID wrote the comment.
func (c *Comment) IsOwnedBy(userID uuid.UUID) bool {
	return c.UserID == userID
}
