package blog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurixa/neurixa/pkg/apperr"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Spaces   everywhere  ", "spaces-everywhere"},
		{"C'est déjà l'été", "c-est-d-j-l-t"},
		{"Go 1.22 Released!", "go-1-22-released"},
		{"---dashes---", "dashes"},
	}
	for _, tc := range cases {
		got, err := Slugify(tc.title)
		require.NoError(t, err, tc.title)
		assert.Equal(t, tc.want, got)
	}

	t.Run("empty title", func(t *testing.T) {
		_, err := Slugify("   !!!   ")
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))
	})

	t.Run("long title truncated", func(t *testing.T) {
		got, err := Slugify(strings.Repeat("word ", 100))
		require.NoError(t, err)
		assert.LessOrEqual(t, len(got), 200)
		assert.NoError(t, ValidateSlug(got))
	})
}

func TestValidateSlug(t *testing.T) {
	assert.NoError(t, ValidateSlug("hello-world-42"))
	assert.Error(t, ValidateSlug("Hello-World"))
	assert.Error(t, ValidateSlug("-leading"))
	assert.Error(t, ValidateSlug("trailing-"))
	assert.Error(t, ValidateSlug("double--dash"))
	assert.Error(t, ValidateSlug(""))
}

func draft(t *testing.T) Article {
	t.Helper()
	a, err := NewDraft("author-1", "My First Post", "body text", "excerpt")
	require.NoError(t, err)
	return a
}

func TestNewDraft(t *testing.T) {
	a := draft(t)
	assert.Equal(t, StatusDraft, a.Status)
	assert.Equal(t, "my-first-post", a.Slug)
	assert.Nil(t, a.PublishedAt)
	assert.False(t, a.Deleted)

	_, err := NewDraft("author-1", "", "body", "")
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))
}

func TestArticleUpdateFollowsTitle(t *testing.T) {
	a := draft(t)
	updated, err := a.Update("A Better Title", "new body", "new excerpt")
	require.NoError(t, err)
	assert.Equal(t, "a-better-title", updated.Slug)
	assert.Equal(t, "new body", updated.Content)

	// The original is untouched.
	assert.Equal(t, "my-first-post", a.Slug)
}

func TestArticlePublishLifecycle(t *testing.T) {
	a := draft(t)

	published, err := a.Publish()
	require.NoError(t, err)
	assert.Equal(t, StatusPublished, published.Status)
	require.NotNil(t, published.PublishedAt)

	back, err := published.Unpublish()
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, back.Status)
	assert.Nil(t, back.PublishedAt)

	_, err = back.Unpublish()
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
}

func TestArticlePublishRequiresContent(t *testing.T) {
	a := draft(t)
	a.Content = ""
	_, err := a.Publish()
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
}

func TestArticleSoftDelete(t *testing.T) {
	a := draft(t)

	deleted, err := a.SoftDelete()
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)
	require.NotNil(t, deleted.DeletedAt)

	_, err = deleted.SoftDelete()
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))

	t.Run("deleted articles reject edits", func(t *testing.T) {
		_, err := deleted.Update("New Title", "body", "")
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
		_, err = deleted.Publish()
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
		_, err = deleted.Categorize([]string{"c1"}, nil)
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
	})

	restored, err := deleted.Restore()
	require.NoError(t, err)
	assert.False(t, restored.Deleted)
	assert.Nil(t, restored.DeletedAt)

	_, err = restored.Restore()
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
}

func TestArticleCategorizeCopiesSlices(t *testing.T) {
	a := draft(t)
	cats := []string{"c1", "c2"}
	tagged, err := a.Categorize(cats, []string{"t1"})
	require.NoError(t, err)

	cats[0] = "mutated"
	assert.Equal(t, []string{"c1", "c2"}, tagged.CategoryIDs)
	assert.Equal(t, []string{"t1"}, tagged.TagIDs)
}

func TestCommentModeration(t *testing.T) {
	c, err := NewComment("article-1", "Reader", "reader@example.com", "Nice post")
	require.NoError(t, err)
	assert.Equal(t, CommentPending, c.Status)

	t.Run("approve", func(t *testing.T) {
		approved, err := c.Approve()
		require.NoError(t, err)
		assert.Equal(t, CommentApproved, approved.Status)

		_, err = approved.Approve()
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
		_, err = approved.Reject()
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
	})

	t.Run("reject", func(t *testing.T) {
		rejected, err := c.Reject()
		require.NoError(t, err)
		assert.Equal(t, CommentRejected, rejected.Status)
	})

	t.Run("soft delete", func(t *testing.T) {
		deleted, err := c.SoftDelete()
		require.NoError(t, err)
		assert.True(t, deleted.Deleted)

		_, err = deleted.SoftDelete()
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
	})

	t.Run("required fields", func(t *testing.T) {
		_, err := NewComment("", "Reader", "", "body")
		assert.Error(t, err)
		_, err = NewComment("article-1", "", "", "body")
		assert.Error(t, err)
		_, err = NewComment("article-1", "Reader", "", "")
		assert.Error(t, err)
	})
}
