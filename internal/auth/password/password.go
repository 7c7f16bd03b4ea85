// Package password owns the credential complexity policy and the bcrypt
// hashing scheme. Plaintext passwords never leave this package in any form
// other than a salted hash.
package password

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"golang.org/x/crypto/bcrypt"
)

var (
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	digitPattern   = regexp.MustCompile(`[0-9]`)
	specialPattern = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// PolicyError marks a complexity-policy violation so handlers can map it
// to a 400 instead of a 500.
type PolicyError struct {
	err error
}

func (e *PolicyError) Error() string { return e.err.Error() }

func (e *PolicyError) Unwrap() error { return e.err }

// Validate checks a candidate password against the complexity policy:
// at least 8 characters with an uppercase letter, a lowercase letter, a
// digit, and a special character. There is no maximum length; oversized
// bodies are rejected at the transport layer.
func Validate(password string) error {
	if err := validate(password); err != nil {
		return &PolicyError{err: err}
	}
	return nil
}

func validate(password string) error {
	return validation.Validate(password,
		validation.Required.Error("password is required"),
		validation.Length(8, 0).Error("password must be at least 8 characters long"),
		validation.Match(upperPattern).Error("password must contain an uppercase letter"),
		validation.Match(lowerPattern).Error("password must contain a lowercase letter"),
		validation.Match(digitPattern).Error("password must contain a number"),
		validation.Match(specialPattern).Error("password must contain a special character"),
	)
}

// Hasher produces and verifies salted bcrypt digests at a configurable cost.
type Hasher struct {
	cost      int
	dummyHash string
}

func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, errors.New("bcrypt cost out of range")
	}

	// Burned once at startup so login can compare against it when the
	// email is unknown, keeping the work done on both failure paths equal.
	dummy, err := bcrypt.GenerateFromPassword([]byte("mirror-dummy-credential"), cost)
	if err != nil {
		return nil, err
	}

	return &Hasher{cost: cost, dummyHash: string(dummy)}, nil
}

func (h *Hasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether password matches the stored hash. bcrypt's own
// comparison is constant-time over the digest.
func (h *Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// VerifyDummy performs a comparison that always fails but costs the same
// as a real verification. Used on the unknown-email login path.
func (h *Hasher) VerifyDummy(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(h.dummyHash), []byte(password))
}
