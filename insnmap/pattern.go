package insnmap

import (
	"strconv"
	"strings"

	"github.com/hideo55/go-popcount"
)

const maxWidth = 64

// Pattern is a parsed bit template.
type Pattern struct {
	Width int
	Code  uint64
	Mask  uint64
}

// ParsePattern parses a template of the form "<width>b<bits>".
//
// Bits are written most significant first using '1', '0' and '?' (don't-care); '_' may be
// used as a separator. A template with fewer bits than its width is padded on the left
// with don't-care bits, e.g. "8b1_0?1" is "8b????10?1".
func ParsePattern(s string) (Pattern, error) {
	var p Pattern

	sep := strings.IndexByte(s, 'b')
	if sep <= 0 || sep == len(s)-1 {
		return p, &PatternError{s, "expected <width>b<bits> with bits in [10?_]"}
	}

	width, err := strconv.Atoi(s[:sep])
	if err != nil || s[0] == '+' || s[0] == '-' {
		return p, &PatternError{s, "width is not a decimal number"}
	}

	switch {
	case width == 0:
		return p, &PatternError{s, "width can not be zero"}
	case width > maxWidth:
		return p, &PatternError{s, "width is above " + strconv.Itoa(maxWidth)}
	}

	var num int // number of bits seen

	for i := sep + 1; i < len(s); i++ {
		switch s[i] {
		case '_':
			continue
		case '1':
			p.Code = p.Code<<1 | 1
			p.Mask = p.Mask<<1 | 1
		case '0':
			p.Code <<= 1
			p.Mask = p.Mask<<1 | 1
		case '?':
			p.Code <<= 1
			p.Mask <<= 1
		default:
			return p, &PatternError{s, "bits contain " + strconv.QuoteRune(rune(s[i]))}
		}

		if num++; num > width {
			return Pattern{}, &PatternError{s, "more than " + strconv.Itoa(width) + " bits"}
		}
	}

	if num == 0 {
		return Pattern{}, &PatternError{s, "no bits"}
	}

	// left padding with '?' leaves the upper code and mask bits zero
	p.Width = width

	return p, nil
}

// Fixed returns the number of significant bits.
func (p Pattern) Fixed() int {
	return int(popcount.Count(p.Mask))
}

// String renders the canonical template with exactly Width bits.
func (p Pattern) String() string {
	var b strings.Builder

	b.WriteString(strconv.Itoa(p.Width))
	b.WriteByte('b')

	for i := p.Width - 1; i >= 0; i-- {
		switch bit := uint64(1) << i; {
		case p.Mask&bit == 0:
			b.WriteByte('?')
		case p.Code&bit != 0:
			b.WriteByte('1')
		default:
			b.WriteByte('0')
		}
	}

	return b.String()
}
