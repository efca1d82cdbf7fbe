package mail

import (
	"bytes"
	"embed"
	"html/template"
	"strconv"
	"strings"
	"time"

	"blogsphere/internal/domain/service"

	"github.com/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

//nolint:gochecknoglobals
var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const verificationSubject = "Email Verification OTP"

type newPostData struct {
	AppName string
	*service.PostNotice
}

type verificationData struct {
	AppName  string
	Code     string
	ValidFor string
}

func renderVerification(appName, code string, ttl time.Duration) (string, error) {
	var buf bytes.Buffer
	err := templates.ExecuteTemplate(&buf, "verification.html", verificationData{
		AppName:  appName,
		Code:     code,
		ValidFor: humanizeDuration(ttl),
	})
	if err != nil {
		return "", errors.Wrap(err, "render verification email")
	}

	return buf.String(), nil
}

func renderNewPost(appName string, notice *service.PostNotice) (subject, body string, err error) {
	var buf bytes.Buffer
	err = templates.ExecuteTemplate(&buf, "new_post.html", newPostData{
		AppName:    appName,
		PostNotice: notice,
	})
	if err != nil {
		return "", "", errors.Wrap(err, "render new post email")
	}

	title := strings.Join(strings.Fields(notice.Title), " ")
	subject = "New post from " + notice.AuthorName + ": " + title

	return subject, buf.String(), nil
}

func humanizeDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "a short time"
	case d%time.Hour == 0 && d >= time.Hour:
		return pluralize(int(d/time.Hour), "hour")
	case d%time.Minute == 0 && d >= time.Minute:
		return pluralize(int(d/time.Minute), "minute")
	default:
		return d.String()
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}

	return strconv.Itoa(n) + " " + unit + "s"
}
