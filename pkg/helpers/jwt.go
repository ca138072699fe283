package helpers

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/neurixa/neurixa/pkg/apperr"
)

const (
	// Issuer is embedded in every token and required on verification.
	Issuer = "neurixa"

	// MinSecretLength is 256 bits, the floor for HS256 keys.
	MinSecretLength = 32
)

// ErrInvalidToken is the single error surfaced for any verification failure.
// Callers must not learn whether the signature, issuer, or expiry failed.
var ErrInvalidToken = apperr.Unauthenticated("invalid or expired token")

// TokenCodec signs and verifies bearer tokens (JWS, HS256) carrying a
// subject and a role claim.
type TokenCodec struct {
	secret   []byte
	validity time.Duration
}

// NewTokenCodec fails fast when the signing secret is missing or shorter
// than MinSecretLength bytes.
func NewTokenCodec(secret string, validity time.Duration) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, apperr.Internal("JWT secret must be configured. Set JWT_SECRET.")
	}
	if len([]byte(secret)) < MinSecretLength {
		return nil, apperr.Newf(apperr.KindInternal,
			"JWT secret must be at least %d bytes (256 bits). Current length: %d bytes",
			MinSecretLength, len([]byte(secret)))
	}
	if validity <= 0 {
		validity = time.Hour
	}
	return &TokenCodec{secret: []byte(secret), validity: validity}, nil
}

// TokenClaims is the verified content of a bearer token.
type TokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Sign issues a token for subject with the given role name.
func (c *TokenCodec) Sign(subject, role string) (string, error) {
	now := time.Now()
	claims := &TokenClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.validity)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify checks signature, issuer, and expiry. Every failure collapses to
// ErrInvalidToken.
func (c *TokenCodec) Verify(tokenStr string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	}, jwt.WithIssuer(Issuer), jwt.WithExpirationRequired())
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.Time.After(time.Now()) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ExpiryOf returns the declared expiry of a syntactically parseable token.
// Only call it on tokens that already passed Verify; logout uses it to size
// the denylist TTL.
func (c *TokenCodec) ExpiryOf(tokenStr string) (time.Time, error) {
	claims := &TokenClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, ErrInvalidToken
	}
	return claims.ExpiresAt.Time, nil
}
