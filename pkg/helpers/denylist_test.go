package helpers

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDenylistKey(t *testing.T) {
	key := DenylistKey("blacklist:jwt:", "some.jwt.token")

	sum := sha256.Sum256([]byte("some.jwt.token"))
	assert.Equal(t, "blacklist:jwt:"+hex.EncodeToString(sum[:]), key)

	// The raw token never appears in the key.
	assert.NotContains(t, key, "some.jwt.token")
}

func TestDenylistKeyDistinctTokens(t *testing.T) {
	a := DenylistKey("p:", "token-a")
	b := DenylistKey("p:", "token-b")
	assert.NotEqual(t, a, b)
}

func TestDenylistTTL(t *testing.T) {
	now := time.Now()

	t.Run("future expiry", func(t *testing.T) {
		ttl := DenylistTTL(now.Add(30*time.Minute), now)
		assert.Equal(t, 30*time.Minute, ttl)
	})

	t.Run("expired token clamps to minimum", func(t *testing.T) {
		ttl := DenylistTTL(now.Add(-time.Minute), now)
		assert.Equal(t, time.Second, ttl)
	})

	t.Run("sub-second remainder clamps to minimum", func(t *testing.T) {
		ttl := DenylistTTL(now.Add(200*time.Millisecond), now)
		assert.Equal(t, time.Second, ttl)
	})
}
