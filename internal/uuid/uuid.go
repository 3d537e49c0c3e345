// Package uuid hands out identifiers for subscriptions and other handles
// behind an interface so tests can use predictable values.
package uuid

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator produces unique string identifiers
type Generator interface {
	New() string
}

// GoogleUUIDGenerator generates random v4 UUIDs
type GoogleUUIDGenerator struct{}

// NewGoogleUUIDGenerator creates a GoogleUUIDGenerator
func NewGoogleUUIDGenerator() *GoogleUUIDGenerator {
	return &GoogleUUIDGenerator{}
}

// New generates a new UUID string
func (g *GoogleUUIDGenerator) New() string {
	return uuid.New().String()
}

// SequenceGenerator returns prefix-1, prefix-2, ... and is safe for concurrent use
type SequenceGenerator struct {
	prefix string
	next   atomic.Uint64
}

// NewSequenceGenerator creates a SequenceGenerator with the given prefix
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix}
}

// New returns the next identifier in the sequence
func (g *SequenceGenerator) New() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.next.Add(1))
}
