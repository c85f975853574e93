// Package auth provides optional HTTP Basic authentication backed by a
// bcrypt password hash, plus a limiter for repeated failures.
package auth

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// Realm is announced in WWW-Authenticate challenges.
const Realm = "tiny-serve"

// Verifier checks Basic credentials against a single user.
type Verifier struct {
	user string
	hash []byte
}

// NewVerifier validates hash and returns a verifier for user.
func NewVerifier(user, hash string) (*Verifier, error) {
	if user == "" {
		return nil, ErrUserRequired
	}
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	return &Verifier{user: user, hash: []byte(hash)}, nil
}

// Verify checks a username/password pair.
func (v *Verifier) Verify(user, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(v.user)) == 1
	// bcrypt runs even when the user is wrong.
	passOK := bcrypt.CompareHashAndPassword(v.hash, []byte(password)) == nil
	return userOK && passOK
}

// Authenticate extracts Basic credentials from r and verifies them.
func (v *Verifier) Authenticate(r *http.Request) error {
	user, password, ok := r.BasicAuth()
	if !ok {
		return ErrMissingCredentials
	}
	if !v.Verify(user, password) {
		return ErrInvalidCredentials
	}
	return nil
}

// Challenge returns the WWW-Authenticate header value.
func Challenge() string {
	return fmt.Sprintf("Basic realm=%q, charset=\"UTF-8\"", Realm)
}
