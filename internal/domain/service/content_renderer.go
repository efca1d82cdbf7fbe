package service

// Post body formats accepted on create and update.
const (
	ContentFormatHTML     = "html"
	ContentFormatMarkdown = "markdown"
)

// ContentRenderer makes user-submitted text safe to store and serve to browsers.
type ContentRenderer interface {
	// RenderPost converts a post body written in format to sanitized HTML. Unknown
	// formats are rejected.
	RenderPost(body, format string) (string, error)

	// PlainText strips all markup from a comment.
	PlainText(text string) string
}
