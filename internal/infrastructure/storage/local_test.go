package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurixa/neurixa/pkg/apperr"
)

func TestLocalProviderRoundTrip(t *testing.T) {
	p, err := NewLocalProvider(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key, err := p.Store(ctx, strings.NewReader("hello blob"), "Report.PDF")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".pdf"), "extension is lowercased: %s", key)

	rc, err := p.Retrieve(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "hello blob", string(data))

	require.NoError(t, p.Delete(ctx, key))
	_, err = p.Retrieve(ctx, key)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestLocalProviderDeleteMissingIsNoop(t *testing.T) {
	p, err := NewLocalProvider(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, p.Delete(context.Background(), "does-not-exist.bin"))
}

func TestLocalProviderRejectsTraversal(t *testing.T) {
	p, err := NewLocalProvider(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("keys resolving to the base dir are rejected", func(t *testing.T) {
		for _, key := range []string{"", "..", "/", "."} {
			_, err := p.Retrieve(ctx, key)
			assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput), "key %q", key)
		}
	})

	t.Run("parent references are normalized inside the base dir", func(t *testing.T) {
		for _, key := range []string{"../outside.txt", "../../etc/passwd"} {
			_, err := p.Retrieve(ctx, key)
			assert.True(t, apperr.IsKind(err, apperr.KindNotFound), "key %q", key)
		}
	})
}

func TestLocalProviderCancelledContext(t *testing.T) {
	p, err := NewLocalProvider(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.Store(ctx, strings.NewReader("x"), "a.txt")
	assert.ErrorIs(t, err, context.Canceled)
}
