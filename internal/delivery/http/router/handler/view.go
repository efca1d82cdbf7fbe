package handler

import (
	"time"

	"blogsphere/internal/domain/entity"

	"github.com/google/uuid"
)

// UserView is the JSON shape of a user. It never carries the password hash.
type UserView struct {
	ID               string    `json:"id"`
	FullName         string    `json:"fullName"`
	Username         string    `json:"username"`
	Email            string    `json:"email,omitempty"`
	ProfilePicture   string    `json:"profilePicture"`
	Bio              string    `json:"bio"`
	IsVerified       bool      `json:"isVerified"`
	Subscribers      []string  `json:"subscribers"`
	SubscribersCount int       `json:"subscribersCount"`
	CreatedAt        time.Time `json:"createdAt"`
}

// AuthorView is the compact user shape embedded in blogs and comments.
type AuthorView struct {
	ID             string `json:"id"`
	FullName       string `json:"fullName"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture"`
}

// CommentView is the JSON shape of a comment.
type CommentView struct {
	ID        string      `json:"id"`
	Text      string      `json:"text"`
	User      *AuthorView `json:"user"`
	CreatedAt time.Time   `json:"createdAt"`
}

// BlogView is the JSON shape of a blog post. Comments are newest first.
type BlogView struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Content       string         `json:"content"`
	CoverImage    string         `json:"coverImage"`
	Tags          []string       `json:"tags"`
	Author        *AuthorView    `json:"author"`
	Likes         []string       `json:"likes"`
	LikesCount    int            `json:"likesCount"`
	Comments      []*CommentView `json:"comments"`
	CommentsCount int            `json:"commentsCount"`
	Shares        int            `json:"shares"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// newUserView renders a user. The email is only shown to the user themselves.
func newUserView(user *entity.User, withEmail bool) *UserView {
	view := &UserView{
		ID:               user.ID.String(),
		FullName:         user.FullName,
		Username:         user.Username,
		ProfilePicture:   user.ProfilePicture,
		Bio:              user.Bio,
		IsVerified:       user.IsVerified,
		Subscribers:      idStrings(user.Subscribers),
		SubscribersCount: user.SubscribersCount(),
		CreatedAt:        user.CreatedAt,
	}
	if withEmail {
		view.Email = user.Email
	}

	return view
}

func newAuthorView(user *entity.User) *AuthorView {
	if user == nil {
		return nil
	}

	return &AuthorView{
		ID:             user.ID.String(),
		FullName:       user.FullName,
		Username:       user.Username,
		ProfilePicture: user.ProfilePicture,
	}
}

func newBlogView(blog *entity.Blog) *BlogView {
	tags := blog.Tags
	if tags == nil {
		tags = []string{}
	}

	comments := make([]*CommentView, 0, len(blog.Comments))
	for _, comment := range blog.CommentsNewestFirst() {
		comments = append(comments, &CommentView{
			ID:        comment.ID.String(),
			Text:      comment.Text,
			User:      newAuthorView(comment.User),
			CreatedAt: comment.CreatedAt,
		})
	}

	return &BlogView{
		ID:            blog.ID.String(),
		Title:         blog.Title,
		Content:       blog.Content,
		CoverImage:    blog.CoverImage,
		Tags:          tags,
		Author:        newAuthorView(blog.Author),
		Likes:         idStrings(blog.Likes),
		LikesCount:    len(blog.Likes),
		Comments:      comments,
		CommentsCount: len(blog.Comments),
		Shares:        blog.Shares,
		CreatedAt:     blog.CreatedAt,
		UpdatedAt:     blog.UpdatedAt,
	}
}

func newBlogViews(blogs []*entity.Blog) []*BlogView {
	views := make([]*BlogView, 0, len(blogs))
	for _, blog := range blogs {
		views = append(views, newBlogView(blog))
	}

	return views
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}

	return out
}
