package insnmap

import (
	"fmt"

	"github.com/hideo55/go-popcount"
)

// Entry is a registered pattern together with its decoded payload.
//
// Code must have every don't-care bit cleared: the trie places entries by the raw Code
// bits, not by Code&Mask.
type Entry[T any] struct {
	Name    string
	Code    uint64
	Mask    uint64
	Payload T
}

// NewEntry parses a pattern string (see ParsePattern) and returns an entry for it.
func NewEntry[T any](name, pattern string, payload T) (Entry[T], Pattern, error) {
	p, err := ParsePattern(pattern)
	if err != nil {
		return Entry[T]{}, p, err
	}

	return Entry[T]{Name: name, Code: p.Code, Mask: p.Mask, Payload: payload}, p, nil
}

// MustEntry is like NewEntry but panics on a malformed pattern. It is meant for static
// tables.
func MustEntry[T any](name, pattern string, payload T) Entry[T] {
	e, _, err := NewEntry(name, pattern, payload)
	if err != nil {
		panic(fmt.Sprintf("insnmap: entry %s: %v", name, err))
	}

	return e
}

// Matches reports whether the word satisfies the entry's fixed bits.
func (e *Entry[T]) Matches(word uint64) bool {
	return word&e.Mask == e.Code
}

// Fixed returns the number of significant (non don't-care) bits.
func (e *Entry[T]) Fixed() int {
	return int(popcount.Count(e.Mask))
}

func (e *Entry[T]) describe() Described {
	return Described{Name: e.Name, Code: e.Code, Mask: e.Mask}
}

func (e *Entry[T]) String() string {
	return e.describe().String()
}
