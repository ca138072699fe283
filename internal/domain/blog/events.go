package blog

import "time"

// Event names carried as the AMQP message type.
const (
	EventArticlePublished = "article.published"
	EventCommentApproved  = "comment.approved"
)

// ArticlePublishedEvent is emitted when an article goes live. The event
// worker indexes the article into the search cluster on receipt.
type ArticlePublishedEvent struct {
	ArticleID   string    `json:"article_id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	PublishedAt time.Time `json:"published_at"`
}

// CommentApprovedEvent is emitted when moderation approves a comment.
type CommentApprovedEvent struct {
	CommentID  string    `json:"comment_id"`
	ArticleID  string    `json:"article_id"`
	ApprovedAt time.Time `json:"approved_at"`
}
