package blog

import (
	"time"

	"github.com/google/uuid"

	"github.com/neurixa/neurixa/pkg/apperr"
)

// CommentStatus tracks comment moderation.
type CommentStatus string

const (
	CommentPending  CommentStatus = "PENDING"
	CommentApproved CommentStatus = "APPROVED"
	CommentRejected CommentStatus = "REJECTED"
)

// Comment is a reader comment awaiting moderation.
type Comment struct {
	ID          string
	ArticleID   string
	AuthorName  string
	AuthorEmail string
	Body        string
	Status      CommentStatus
	Deleted     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewComment creates a pending comment on an article.
func NewComment(articleID, authorName, authorEmail, body string) (Comment, error) {
	if articleID == "" {
		return Comment{}, apperr.InvalidInput("article id is required")
	}
	if authorName == "" {
		return Comment{}, apperr.InvalidInput("author name is required")
	}
	if body == "" {
		return Comment{}, apperr.InvalidInput("comment body is required")
	}
	now := time.Now().UTC()
	return Comment{
		ID:          uuid.NewString(),
		ArticleID:   articleID,
		AuthorName:  authorName,
		AuthorEmail: authorEmail,
		Body:        body,
		Status:      CommentPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Approve moves a pending comment to APPROVED.
func (c Comment) Approve() (Comment, error) {
	if c.Status != CommentPending {
		return Comment{}, apperr.InvalidState("Only pending comments can be approved.")
	}
	c.Status = CommentApproved
	c.UpdatedAt = time.Now().UTC()
	return c, nil
}

// Reject moves a pending comment to REJECTED.
func (c Comment) Reject() (Comment, error) {
	if c.Status != CommentPending {
		return Comment{}, apperr.InvalidState("Only pending comments can be rejected.")
	}
	c.Status = CommentRejected
	c.UpdatedAt = time.Now().UTC()
	return c, nil
}

// SoftDelete hides a comment without destroying it.
func (c Comment) SoftDelete() (Comment, error) {
	if c.Deleted {
		return Comment{}, apperr.InvalidState("Comment is already deleted.")
	}
	c.Deleted = true
	c.UpdatedAt = time.Now().UTC()
	return c, nil
}
