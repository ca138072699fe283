package helpers

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes the plain text password using bcrypt. Each call salts
// independently, so two hashes of the same input never compare equal as
// strings.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword compares a bcrypt hash with a plain password in constant
// time with respect to the candidate.
func VerifyPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// DummyHash is a valid bcrypt hash of a random throwaway password. Login
// verifies against it when the username does not exist so that the response
// time does not reveal account presence.
const DummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Bcrypt adapts the package functions to the hashing port used by services.
type Bcrypt struct{}

func (Bcrypt) Hash(raw string) (string, error) { return HashPassword(raw) }
func (Bcrypt) Verify(raw, hash string) bool    { return VerifyPassword(hash, raw) }
