package blog

import (
	"time"

	"github.com/google/uuid"

	"github.com/neurixa/neurixa/pkg/apperr"
)

// ArticleStatus is the publication state of an article.
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "DRAFT"
	StatusPublished ArticleStatus = "PUBLISHED"
)

// Article is the blog aggregate root. Transitions follow the copy-on-write
// discipline used by the user aggregate: each one returns a fresh value.
type Article struct {
	ID              string
	AuthorID        string
	Title           string
	Slug            string
	Content         string
	Excerpt         string
	Status          ArticleStatus
	CategoryIDs     []string
	TagIDs          []string
	ViewCount       int64
	MetaTitle       string
	MetaDescription string
	Deleted         bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
	PublishedAt     *time.Time
	DeletedAt       *time.Time
}

// NewDraft creates an unpublished article.
func NewDraft(authorID, title, content, excerpt string) (Article, error) {
	if title == "" {
		return Article{}, apperr.InvalidInput("title is required")
	}
	slug, err := Slugify(title)
	if err != nil {
		return Article{}, err
	}
	now := time.Now().UTC()
	return Article{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Title:     title,
		Slug:      slug,
		Content:   content,
		Excerpt:   excerpt,
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (a Article) touched() Article {
	a.UpdatedAt = time.Now().UTC()
	return a
}

func (a Article) guardNotDeleted() error {
	if a.Deleted {
		return apperr.InvalidState("Cannot modify a deleted article.")
	}
	return nil
}

// Update replaces title, content, and excerpt; the slug follows the title.
func (a Article) Update(title, content, excerpt string) (Article, error) {
	if err := a.guardNotDeleted(); err != nil {
		return Article{}, err
	}
	if title == "" {
		return Article{}, apperr.InvalidInput("title is required")
	}
	slug, err := Slugify(title)
	if err != nil {
		return Article{}, err
	}
	a.Title = title
	a.Slug = slug
	a.Content = content
	a.Excerpt = excerpt
	return a.touched(), nil
}

// Publish requires a title and content.
func (a Article) Publish() (Article, error) {
	if err := a.guardNotDeleted(); err != nil {
		return Article{}, err
	}
	if a.Title == "" || a.Content == "" {
		return Article{}, apperr.InvalidState("Article must have a title and content to be published.")
	}
	now := time.Now().UTC()
	a.Status = StatusPublished
	a.PublishedAt = &now
	a.UpdatedAt = now
	return a, nil
}

func (a Article) Unpublish() (Article, error) {
	if a.Status != StatusPublished {
		return Article{}, apperr.InvalidState("Only published articles can be unpublished.")
	}
	a.Status = StatusDraft
	a.PublishedAt = nil
	return a.touched(), nil
}

// SoftDelete hides the article without destroying it.
func (a Article) SoftDelete() (Article, error) {
	if a.Deleted {
		return Article{}, apperr.InvalidState("Article is already deleted.")
	}
	now := time.Now().UTC()
	a.Deleted = true
	a.DeletedAt = &now
	a.UpdatedAt = now
	return a, nil
}

func (a Article) Restore() (Article, error) {
	if !a.Deleted {
		return Article{}, apperr.InvalidState("Article is not deleted.")
	}
	a.Deleted = false
	a.DeletedAt = nil
	return a.touched(), nil
}

// Categorize replaces the category and tag assignments.
func (a Article) Categorize(categoryIDs, tagIDs []string) (Article, error) {
	if err := a.guardNotDeleted(); err != nil {
		return Article{}, err
	}
	a.CategoryIDs = append([]string(nil), categoryIDs...)
	a.TagIDs = append([]string(nil), tagIDs...)
	return a.touched(), nil
}

func (a Article) SetMeta(metaTitle, metaDescription string) (Article, error) {
	if err := a.guardNotDeleted(); err != nil {
		return Article{}, err
	}
	a.MetaTitle = metaTitle
	a.MetaDescription = metaDescription
	return a.touched(), nil
}
