package format

import (
	"strings"
	"unicode/utf8"
)

// Option keys recognized by FromMap.
const (
	KeyRemoveTab        = "remove_tab"
	KeyRemoveSpace      = "remove_space"
	KeyEnglishMode      = "english_mode"
	KeyBulletSymbols    = "bullet_symbols"
	KeyCustomBullets    = "custom_bullets"
	KeyParagraphBreak   = "paragraph_break"
	KeyBreakAtKuten     = "break_at_kuten"
	KeyBreakAtDot       = "break_at_dot"
	KeyCustomBreakChars = "custom_break_chars"
	KeyQuoteBreakInside = "quote_break_inside"
	KeyAddClosingQuote  = "add_closing_quote"
)

// Keys lists every option key in a stable order.
var Keys = []string{
	KeyRemoveTab,
	KeyRemoveSpace,
	KeyEnglishMode,
	KeyBulletSymbols,
	KeyCustomBullets,
	KeyParagraphBreak,
	KeyBreakAtKuten,
	KeyBreakAtDot,
	KeyCustomBreakChars,
	KeyQuoteBreakInside,
	KeyAddClosingQuote,
}

// Punctuation handled by the engine.
const (
	Kuten        = '。'
	FullWidthDot = '．'
	OpenQuote    = '「'
	CloseQuote   = '」'
	ideoSpace    = '　'
)

// DefaultBulletSymbols are the leading glyphs treated as list items.
var DefaultBulletSymbols = []rune{'・', '●', '〇', '■', '□', '◆', '◇', '▲', '△', '▼', '▽'}

// Options controls the reformatting rules. The zero value is not useful;
// start from DefaultOptions or FromMap.
type Options struct {
	RemoveTab        bool
	RemoveSpace      bool
	EnglishMode      bool
	BulletSymbols    []rune
	CustomBullets    []rune
	ParagraphBreak   bool
	BreakAtKuten     bool
	BreakAtDot       bool
	CustomBreakChars []rune
	QuoteBreakInside bool
	AddClosingQuote  bool
}

// DefaultOptions returns the options used when no configuration is given.
func DefaultOptions() Options {
	return Options{
		RemoveTab:       true,
		RemoveSpace:     true,
		BulletSymbols:   append([]rune(nil), DefaultBulletSymbols...),
		BreakAtKuten:    true,
		AddClosingQuote: true,
	}
}

// FromMap builds Options from a loosely typed mapping such as a decoded
// settings table. Missing keys and values of the wrong type keep their
// defaults. Character sets may be given as a list or a comma-joined string.
func FromMap(m map[string]any) Options {
	opts := DefaultOptions()
	if m == nil {
		return opts
	}

	setBool := func(key string, dst *bool) {
		if v, ok := m[key].(bool); ok {
			*dst = v
		}
	}
	setRunes := func(key string, dst *[]rune) {
		if v, ok := m[key]; ok {
			if rs, ok := toRunes(v); ok {
				*dst = rs
			}
		}
	}

	setBool(KeyRemoveTab, &opts.RemoveTab)
	setBool(KeyRemoveSpace, &opts.RemoveSpace)
	setBool(KeyEnglishMode, &opts.EnglishMode)
	setRunes(KeyBulletSymbols, &opts.BulletSymbols)
	setRunes(KeyCustomBullets, &opts.CustomBullets)
	setBool(KeyParagraphBreak, &opts.ParagraphBreak)
	setBool(KeyBreakAtKuten, &opts.BreakAtKuten)
	setBool(KeyBreakAtDot, &opts.BreakAtDot)
	setRunes(KeyCustomBreakChars, &opts.CustomBreakChars)
	setBool(KeyQuoteBreakInside, &opts.QuoteBreakInside)
	setBool(KeyAddClosingQuote, &opts.AddClosingQuote)

	return opts
}

// ToMap is the inverse of FromMap. Character sets are rendered as lists of
// one-character strings so that a comma survives as an entry.
func (o Options) ToMap() map[string]any {
	return map[string]any{
		KeyRemoveTab:        o.RemoveTab,
		KeyRemoveSpace:      o.RemoveSpace,
		KeyEnglishMode:      o.EnglishMode,
		KeyBulletSymbols:    CharList(o.BulletSymbols),
		KeyCustomBullets:    CharList(o.CustomBullets),
		KeyParagraphBreak:   o.ParagraphBreak,
		KeyBreakAtKuten:     o.BreakAtKuten,
		KeyBreakAtDot:       o.BreakAtDot,
		KeyCustomBreakChars: CharList(o.CustomBreakChars),
		KeyQuoteBreakInside: o.QuoteBreakInside,
		KeyAddClosingQuote:  o.AddClosingQuote,
	}
}

// ParseChars normalizes a comma-joined character list into a set.
// Entries are trimmed; empty entries and entries longer than one
// character are dropped. Order of first occurrence is kept.
func ParseChars(s string) []rune {
	return parseCharList(strings.Split(s, ","))
}

// parseCharList normalizes list entries the same way as ParseChars, without
// splitting them further: an entry "," is the comma itself.
func parseCharList(parts []string) []rune {
	var out []rune
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if utf8.RuneCountInString(part) != 1 {
			continue
		}
		r, _ := utf8.DecodeRuneInString(part)
		out = appendUnique(out, r)
	}
	return out
}

// JoinChars renders a character set as a comma-joined string.
func JoinChars(rs []rune) string {
	return strings.Join(CharList(rs), ",")
}

// CharList renders a character set as a list of one-character strings.
func CharList(rs []rune) []string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = string(r)
	}
	return parts
}

// toRunes accepts a comma-joined string or a list of single-character strings.
func toRunes(v any) ([]rune, bool) {
	switch t := v.(type) {
	case string:
		return ParseChars(t), true
	case []string:
		return parseCharList(t), true
	case []rune:
		return dedupe(t), true
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			parts = append(parts, s)
		}
		return parseCharList(parts), true
	default:
		return nil, false
	}
}

func dedupe(rs []rune) []rune {
	var out []rune
	for _, r := range rs {
		out = appendUnique(out, r)
	}
	return out
}

func appendUnique(rs []rune, r rune) []rune {
	for _, e := range rs {
		if e == r {
			return rs
		}
	}
	return append(rs, r)
}

// isBullet reports whether r starts a list item.
func (o Options) isBullet(r rune) bool {
	for _, b := range o.BulletSymbols {
		if b == r {
			return true
		}
	}
	for _, b := range o.CustomBullets {
		if b == r {
			return true
		}
	}
	return false
}

// breakChars returns the ordered, duplicate-free list of break characters.
func (o Options) breakChars() []rune {
	var out []rune
	if o.BreakAtKuten {
		out = append(out, Kuten)
	}
	if o.BreakAtDot {
		out = appendUnique(out, FullWidthDot)
	}
	for _, r := range o.CustomBreakChars {
		out = appendUnique(out, r)
	}
	return out
}
