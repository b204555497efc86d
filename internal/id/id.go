package id

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ShortLen is the number of characters shown when an ID is abbreviated.
const ShortLen = 8

var (
	// ErrNoMatch is returned by Resolve when no candidate has the prefix.
	ErrNoMatch = errors.New("no matching id")
	// ErrAmbiguous is returned by Resolve when several candidates share the prefix.
	ErrAmbiguous = errors.New("ambiguous id prefix")
)

// Generator hands out identifiers. Implementations must never return the
// same value twice, even after the record holding it has been deleted.
type Generator interface {
	New() string
}

// UUID generates random version 4 UUIDs.
type UUID struct{}

// New returns a fresh UUID string.
func (UUID) New() string {
	return uuid.NewString()
}

// Sequence generates predictable IDs like "txn-0001". It is meant for tests
// and fixtures; it only guarantees uniqueness within one process.
type Sequence struct {
	prefix string
	next   int
}

// NewSequence returns a Sequence starting at 1.
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix, next: 1}
}

// New returns the next ID in the sequence.
func (s *Sequence) New() string {
	v := FormatSeq(s.prefix, s.next)
	s.next++
	return v
}

// FormatSeq returns a sequence ID like "txn-0001".
func FormatSeq(prefix string, seq int) string {
	return fmt.Sprintf("%s-%04d", prefix, seq)
}

// Short abbreviates an ID for display.
func Short(id string) string {
	if len(id) <= ShortLen {
		return id
	}
	return id[:ShortLen]
}

// Resolve finds the single candidate equal to or starting with prefix.
// An exact match always wins over prefix matches.
func Resolve(prefix string, candidates []string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("%w: empty prefix", ErrNoMatch)
	}
	var matches []string
	for _, c := range candidates {
		if c == prefix {
			return c, nil
		}
		if strings.HasPrefix(c, prefix) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %q", ErrNoMatch, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %q matches %d ids", ErrAmbiguous, prefix, len(matches))
	}
}
