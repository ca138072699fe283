package blog

import (
	"regexp"
	"strings"

	"github.com/neurixa/neurixa/pkg/apperr"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)
	slugPattern      = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// Slugify derives a URL slug from a title.
func Slugify(title string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugInvalidChars.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "", apperr.InvalidInput("cannot derive a slug from an empty title")
	}
	if len(s) > 200 {
		s = strings.Trim(s[:200], "-")
	}
	return s, nil
}

// ValidateSlug checks an externally supplied slug.
func ValidateSlug(s string) error {
	if !slugPattern.MatchString(s) {
		return apperr.InvalidInput("slug must contain only lowercase letters, digits and hyphens")
	}
	return nil
}
