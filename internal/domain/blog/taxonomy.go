package blog

import (
	"time"

	"github.com/google/uuid"

	"github.com/neurixa/neurixa/pkg/apperr"
)

// Category groups published articles. Slugs are unique.
type Category struct {
	ID          string
	Name        string
	Slug        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewCategory(name, description string) (Category, error) {
	if name == "" {
		return Category{}, apperr.InvalidInput("category name is required")
	}
	slug, err := Slugify(name)
	if err != nil {
		return Category{}, err
	}
	now := time.Now().UTC()
	return Category{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        slug,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (c Category) Rename(name, description string) (Category, error) {
	if name == "" {
		return Category{}, apperr.InvalidInput("category name is required")
	}
	slug, err := Slugify(name)
	if err != nil {
		return Category{}, err
	}
	c.Name = name
	c.Slug = slug
	c.Description = description
	c.UpdatedAt = time.Now().UTC()
	return c, nil
}

// Tag is a flat label attached to articles. Slugs are unique.
type Tag struct {
	ID        string
	Name      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewTag(name string) (Tag, error) {
	if name == "" {
		return Tag{}, apperr.InvalidInput("tag name is required")
	}
	slug, err := Slugify(name)
	if err != nil {
		return Tag{}, err
	}
	now := time.Now().UTC()
	return Tag{
		ID:        uuid.NewString(),
		Name:      name,
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
