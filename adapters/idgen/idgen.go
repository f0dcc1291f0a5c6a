// Package idgen provides record identifier generation.
package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/askhub/askhub/ports"
)

// UUID issues random v4 identifiers for production stores.
type UUID struct{}

// New returns a fresh UUID v4 string.
func (UUID) New() string {
	return uuid.New().String()
}

var _ ports.IDGenerator = UUID{}

// Sequential issues prefix1, prefix2, ... so tests get predictable ids.
type Sequential struct {
	prefix  string
	counter uint64
}

// NewSequential creates a sequential ID generator with the given prefix.
func NewSequential(prefix string) *Sequential {
	return &Sequential{prefix: prefix}
}

// New returns the next id in the sequence. Safe for concurrent use.
func (s *Sequential) New() string {
	n := atomic.AddUint64(&s.counter, 1)
	return s.prefix + strconv.FormatUint(n, 10)
}

// Reset rewinds the counter to zero.
func (s *Sequential) Reset() {
	atomic.StoreUint64(&s.counter, 0)
}

var _ ports.IDGenerator = (*Sequential)(nil)
