package service

import (
	"context"
	"time"
)

// Blog activity event types
const (
	EventBlogPublished = "blog.published"
	EventBlogLiked     = "blog.liked"
	EventBlogCommented = "blog.commented"
	EventBlogShared    = "blog.shared"
)

// BlogEvent describes activity on a blog for downstream consumers such as feed or email digests
type BlogEvent struct {
	RequestID     string    `json:"request_id,omitempty"` // For distributed tracing
	Type          string    `json:"type"`
	BlogID        string    `json:"blog_id"`
	AuthorID      string    `json:"author_id"`
	ActorID       string    `json:"actor_id"`
	Title         string    `json:"title,omitempty"`
	SubscriberIDs []string  `json:"subscriber_ids,omitempty"` // Followers of the author, set on blog.published
	OccurredAt    time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishBlogEvent publishes a blog activity event for async processing
	PublishBlogEvent(ctx context.Context, event *BlogEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
