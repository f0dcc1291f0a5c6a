// Package memory provides in-memory implementations of storage ports,
// used by tests and by builtin mode before a database is configured.
package memory

import "github.com/askhub/askhub/ports"

// ErrNotFound is returned when an entity is not found.
var ErrNotFound = ports.ErrNotFound
