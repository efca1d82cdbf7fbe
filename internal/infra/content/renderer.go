// Package content renders and sanitizes post bodies and comments.
package content

import (
	"bytes"
	"html"

	"blogsphere/internal/domain/service"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

// ErrUnknownFormat is returned for a post format other than html or markdown.
var ErrUnknownFormat = errors.New("unknown content format")

type renderer struct {
	markdown goldmark.Markdown
	post     *bluemonday.Policy
	strict   *bluemonday.Policy
}

// NewContentRenderer returns a renderer that allows the usual rich-text elements in
// posts (links, images, lists, tables, code) and nothing executable.
func NewContentRenderer() service.ContentRenderer {
	post := bluemonday.UGCPolicy()
	post.AllowImages()
	post.AddTargetBlankToFullyQualifiedLinks(true)
	post.RequireNoReferrerOnLinks(true)

	return &renderer{
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps()),
		),
		post:   post,
		strict: bluemonday.StrictPolicy(),
	}
}

func (r *renderer) RenderPost(body, format string) (string, error) {
	switch format {
	case "", service.ContentFormatHTML:
		return r.post.Sanitize(body), nil

	case service.ContentFormatMarkdown:
		var buf bytes.Buffer
		if err := r.markdown.Convert([]byte(body), &buf); err != nil {
			return "", errors.Wrap(err, "failed to render markdown")
		}

		return string(r.post.SanitizeBytes(buf.Bytes())), nil

	default:
		return "", errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
}

// PlainText keeps the visible text only. Entities are decoded again because
// comments are served as JSON strings, not HTML.
func (r *renderer) PlainText(text string) string {
	return html.UnescapeString(r.strict.Sanitize(text))
}
