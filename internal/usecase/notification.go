package usecase

import (
	"context"

	"blogsphere/internal/domain/service"
)

// NotifyOutput summarises one event's email fan-out.
type NotifyOutput struct {
	Recipients int
	Sent       int
	Failed     int
}

// NotificationUsecase reacts to blog activity events delivered to the worker.
type NotificationUsecase interface {
	// HandleBlogEvent mails a published post to the author's subscribers. Other event
	// types are accepted and ignored.
	HandleBlogEvent(ctx context.Context, event *service.BlogEvent) (*NotifyOutput, error)
}
