package insnmap

import (
	"errors"
	"fmt"
)

var (
	// ErrFrozen is returned by Register after the map has been frozen.
	ErrFrozen = errors.New("instruction map is frozen")
	// ErrWidth reports a width outside 1..64 or a pattern of the wrong width.
	ErrWidth = errors.New("invalid instruction width")
	// ErrRange reports a code or mask with bits at or above the map width.
	ErrRange = errors.New("code or mask exceeds instruction width")
)

// ConflictError is returned by Register when the incoming code is already stored.
type ConflictError struct {
	Existing Described
	Incoming Described
}

// Described is the diagnostic part of an entry.
type Described struct {
	Name string
	Code uint64
	Mask uint64
}

func (d Described) String() string {
	return fmt.Sprintf("%s(code = %#x; mask = %#x)", d.Name, d.Code, d.Mask)
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("inst %v is duplicated with inst %v", e.Incoming, e.Existing)
}

// IllegalInstructionError is returned by Decode when no pattern matches the word.
type IllegalInstructionError struct {
	Word  uint64
	Width int
}

func (e *IllegalInstructionError) Error() string {
	digits := (e.Width + 3) / 4
	return fmt.Sprintf("illegal instruction 0x%0*x", digits, e.Word)
}

// PatternError reports a malformed pattern string.
type PatternError struct {
	Pattern string
	Reason  string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %s", e.Pattern, e.Reason)
}
