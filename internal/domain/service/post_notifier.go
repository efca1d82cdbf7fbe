package service

import "context"

// PostNotice is the content of a new-post email to a subscriber.
type PostNotice struct {
	AuthorName     string
	AuthorUsername string
	Title          string
	Link           string
}

// PostNotifier tells subscribers about new posts.
type PostNotifier interface {
	SendNewPostNotice(ctx context.Context, email string, notice *PostNotice) error
}
