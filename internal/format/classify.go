package format

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Kind is the classification of one physical line.
type Kind int

const (
	// Ordinary lines go through whitespace removal, quote tracking and break insertion.
	Ordinary Kind = iota
	// Blank lines are emitted as empty lines.
	Blank
	// Bullet lines are emitted verbatim.
	Bullet
	// ParagraphContinuation lines are re-indented and start a new output line.
	ParagraphContinuation
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case Ordinary:
		return "Ordinary"
	case Blank:
		return "Blank"
	case Bullet:
		return "Bullet"
	case ParagraphContinuation:
		return "ParagraphContinuation"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// minContentRunes is the longest line, after trimming, still treated as blank.
const minContentRunes = 2

// paragraphIndent replaces the leading whitespace of a continuation line.
const paragraphIndent = "　　"

// Classify decides how raw is handled. normalized is the trimmed line after
// NormalizeWhitespace; raw is the line as extracted, whose leading whitespace
// marks a paragraph continuation.
func Classify(raw, normalized string, st State, opts Options) Kind {
	if utf8.RuneCountInString(strings.TrimSpace(raw)) <= minContentRunes {
		return Blank
	}
	if first, _ := utf8.DecodeRuneInString(normalized); first != utf8.RuneError && opts.isBullet(first) {
		return Bullet
	}
	if opts.ParagraphBreak && !st.FirstLine && startsWithSpace(raw) {
		return ParagraphContinuation
	}
	return Ordinary
}

// NormalizeWhitespace removes tabs and, outside English mode, ASCII and
// full-width spaces. Applying it twice gives the same result as once.
func NormalizeWhitespace(line string, opts Options) string {
	if opts.RemoveTab {
		line = strings.ReplaceAll(line, "\t", "")
	}
	if opts.RemoveSpace && !opts.EnglishMode {
		line = strings.ReplaceAll(line, " ", "")
		line = strings.ReplaceAll(line, string(ideoSpace), "")
	}
	return line
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r == ' ' || r == ideoSpace
}

// indentParagraph strips leading whitespace and applies the fixed indent.
func indentParagraph(line string) string {
	return paragraphIndent + strings.TrimLeft(line, " \t"+string(ideoSpace))
}
