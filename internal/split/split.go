// Package split partitions formatted text into contiguous line ranges.
package split

import (
	"fmt"
	"strings"

	"github.com/alnah/pdftextfmt/internal/format"
)

// Mode selects how many segments Split produces.
type Mode int

const (
	// Full keeps the whole text as one segment.
	Full Mode = iota
	// Half splits the text into two segments.
	Half
	// Third splits the text into three segments.
	Third
)

// Tokens accepted by ParseMode.
const (
	TokenFull  = "full"
	TokenHalf  = "half"
	TokenThird = "third"
)

// String returns the token for m.
func (m Mode) String() string {
	switch m {
	case Full:
		return TokenFull
	case Half:
		return TokenHalf
	case Third:
		return TokenThird
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// Parts returns the number of segments m produces for text with more than one line.
func (m Mode) Parts() int {
	switch m {
	case Half:
		return 2
	case Third:
		return 3
	default:
		return 1
	}
}

// ParseMode converts a token to a Mode. Matching is exact and case-sensitive.
func ParseMode(s string) (Mode, error) {
	switch s {
	case TokenFull:
		return Full, nil
	case TokenHalf:
		return Half, nil
	case TokenThird:
		return Third, nil
	default:
		return Full, fmt.Errorf("%w %q (valid: %s, %s, %s)", ErrUnknownMode, s, TokenFull, TokenHalf, TokenThird)
	}
}

// Split partitions text according to mode.
//
// Full, text with at most one line, and mode values outside the three
// constants all yield a single segment holding text unchanged. Otherwise
// each segment is its lines from Lines joined with "\n".
func Split(text string, mode Mode) []string {
	if mode != Half && mode != Third {
		return []string{text}
	}

	segments := Lines(format.SplitLines(text), mode)
	if len(segments) == 1 {
		return []string{text}
	}

	out := make([]string, len(segments))
	for i, seg := range segments {
		out[i] = strings.Join(seg, "\n")
	}
	return out
}

// Lines partitions lines according to mode. Half yields lines[:n/2] and
// lines[n/2:]; Third uses t = n/3 and yields lines[:t], lines[t:2t] and
// lines[2t:]. Remainders land in the last segment. Fewer than two lines, Full,
// and unknown modes yield one segment. The returned slices share lines'
// backing array.
func Lines(lines []string, mode Mode) [][]string {
	n := len(lines)
	if n <= 1 {
		return [][]string{lines}
	}

	switch mode {
	case Half:
		mid := n / 2
		return [][]string{lines[:mid], lines[mid:]}
	case Third:
		t := n / 3
		return [][]string{lines[:t], lines[t : 2*t], lines[2*t:]}
	default:
		return [][]string{lines}
	}
}
