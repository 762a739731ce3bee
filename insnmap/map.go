package insnmap

import (
	"fmt"

	"github.com/rs/zerolog"
	"go.uber.org/multierr"
)

// Map is a decode index for instruction words of a fixed width.
//
// Register and Freeze must be called from a single goroutine. Once Freeze returns, the
// map is read-only and Lookup/Decode may run concurrently.
type Map[T any] struct {
	width   int
	frozen  bool
	nodes   []node     // nodes[0] is the root
	entries []Entry[T] // in registration order
	log     zerolog.Logger
}

// Option configures a Map.
type Option func(*options)

type options struct {
	log      zerolog.Logger
	capacity int
}

// WithLogger makes the map report conflicts and freeze statistics to the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithCapacity preallocates room for n entries.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// New returns an empty map for words of the given width (1..64 bits).
func New[T any](width int, opts ...Option) (*Map[T], error) {
	if width < 1 || width > maxWidth {
		return nil, fmt.Errorf("%w: %d", ErrWidth, width)
	}

	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Map[T]{
		width:   width,
		entries: make([]Entry[T], 0, o.capacity),
		log:     o.log.With().Str("component", "insnmap").Int("width", width).Logger(),
	}
	m.newNode(0) // root

	return m, nil
}

// Width returns the instruction width in bits.
func (m *Map[T]) Width() int {
	return m.width
}

// Len returns the number of registered entries.
func (m *Map[T]) Len() int {
	return len(m.entries)
}

// Frozen reports whether Freeze has been called.
func (m *Map[T]) Frozen() bool {
	return m.frozen
}

// Entries returns the registered entries in registration order.
func (m *Map[T]) Entries() []Entry[T] {
	out := make([]Entry[T], len(m.entries))
	copy(out, m.entries)
	return out
}

// Register adds an entry. It fails with ErrFrozen after Freeze, with ErrRange if the
// code or mask does not fit the width, and with *ConflictError if an entry with the same
// code is already registered. A failed Register leaves the map untouched.
func (m *Map[T]) Register(e Entry[T]) error {
	if m.frozen {
		return fmt.Errorf("register %s: %w", e.Name, ErrFrozen)
	}

	if m.width < maxWidth {
		if limit := uint64(1) << m.width; e.Code >= limit || e.Mask >= limit {
			return fmt.Errorf("register %s: %w (code = %#x; mask = %#x; width = %d)",
				e.Name, ErrRange, e.Code, e.Mask, m.width)
		}
	}

	if slot := m.insert(e); slot != 0 {
		existing := &m.entries[slot-1]

		m.log.Warn().
			Str("name", e.Name).Uint64("code", e.Code).Uint64("mask", e.Mask).
			Str("existing_name", existing.Name).
			Uint64("existing_code", existing.Code).Uint64("existing_mask", existing.Mask).
			Msg("duplicated instruction pattern")

		return &ConflictError{Existing: existing.describe(), Incoming: e.describe()}
	}

	return nil
}

// RegisterPattern parses the pattern and registers it. The pattern width must equal the
// map width.
func (m *Map[T]) RegisterPattern(name, pattern string, payload T) error {
	e, p, err := NewEntry(name, pattern, payload)
	if err != nil {
		return fmt.Errorf("register %s: %w", name, err)
	}
	if p.Width != m.width {
		return fmt.Errorf("register %s: %w: pattern has %d bits, map has %d",
			name, ErrWidth, p.Width, m.width)
	}

	return m.Register(e)
}

// RegisterAll registers every entry, continuing past failures. The returned error
// combines all failures (see multierr.Errors).
func (m *Map[T]) RegisterAll(entries ...Entry[T]) error {
	var err error

	for _, e := range entries {
		err = multierr.Append(err, m.Register(e))
	}

	return err
}

// Freeze compresses the trie and closes the build phase. Calling it again is a no-op.
func (m *Map[T]) Freeze() {
	if m.frozen {
		return
	}

	before := m.reachable()
	m.compress()
	m.frozen = true

	m.log.Debug().
		Int("entries", len(m.entries)).
		Int("nodes_before", before).
		Int("nodes_after", m.reachable()).
		Msg("instruction map frozen")
}

// Lookup returns the payload of the first entry matching the word.
func (m *Map[T]) Lookup(word uint64) (T, bool) {
	if e := m.find(0, word); e != nil {
		return e.Payload, true
	}

	var zero T
	return zero, false
}

// LookupEntry is like Lookup but returns the whole entry.
func (m *Map[T]) LookupEntry(word uint64) (Entry[T], bool) {
	if e := m.find(0, word); e != nil {
		return *e, true
	}

	return Entry[T]{}, false
}

// Decode returns the payload matching the word or an *IllegalInstructionError.
func (m *Map[T]) Decode(word uint64) (T, error) {
	if e := m.find(0, word); e != nil {
		return e.Payload, nil
	}

	var zero T
	return zero, &IllegalInstructionError{Word: word, Width: m.width}
}
