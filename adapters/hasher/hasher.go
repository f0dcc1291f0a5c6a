// Package hasher provides password hashing for account credentials.
package hasher

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/askhub/askhub/ports"
)

// Bcrypt hashes passwords with bcrypt. A zero or out-of-range cost falls
// back to bcrypt.DefaultCost, so NewBcrypt(0) is the usual call site.
type Bcrypt struct {
	cost int
}

// NewBcrypt creates a bcrypt hasher with the given cost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// Hash derives a bcrypt digest from the plaintext password.
func (h *Bcrypt) Hash(plaintext string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
}

// Compare reports whether plaintext matches the stored digest.
func (h *Bcrypt) Compare(hash []byte, plaintext string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(plaintext)) == nil
}

var _ ports.Hasher = (*Bcrypt)(nil)

// Fake stores passwords verbatim so tests can seed accounts without paying
// bcrypt's cost. Never use it outside tests.
type Fake struct{}

// Hash returns the plaintext unchanged.
func (Fake) Hash(plaintext string) ([]byte, error) {
	return []byte(plaintext), nil
}

// Compare is plain string equality.
func (Fake) Compare(hash []byte, plaintext string) bool {
	return string(hash) == plaintext
}

var _ ports.Hasher = Fake{}
