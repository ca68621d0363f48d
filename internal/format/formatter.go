// Package format turns extracted document text into readably line-broken
// plain text.
//
// The engine walks the document one physical line at a time. Each line is
// classified (blank, bullet, paragraph continuation or ordinary text),
// stripped of tabs and spaces, and broken after the configured punctuation.
// A quotation span opened by 「 is tracked across lines until a line holding
// 」 closes it, at which point the closing policy decides where breaks go.
//
// Format is a pure function: it holds no state between calls and is safe to
// call from concurrent goroutines with independent Options values.
package format

import (
	"strings"
)

// State is threaded through the lines of one Format call.
type State struct {
	// FirstLine is true until the first non-blank, non-bullet line is processed.
	FirstLine bool
	// InQuote is true while inside an unterminated quotation span.
	InQuote bool
}

// initialState is the state at the start of every document.
func initialState() State {
	return State{FirstLine: true}
}

// Format reformats text according to opts.
// Lines are split on \n, \r\n and \r and the result is joined with \n.
// The break left after the last emitted line is dropped; blank lines are
// kept, including trailing ones. Empty input returns an empty string.
func Format(text string, opts Options) string {
	if text == "" {
		return ""
	}

	lines := SplitLines(text)
	out := make([]string, 0, len(lines))
	st := initialState()

	for _, raw := range lines {
		var line string
		out, line, st = step(out, raw, st, opts)
		out = append(out, line)
	}

	if n := len(out); n > 0 {
		out[n-1] = strings.TrimSuffix(out[n-1], "\n")
	}
	return strings.Join(out, "\n")
}

// step processes one raw line. It may terminate the previously emitted line
// and returns the updated output, the line to emit and the next state.
func step(out []string, raw string, st State, opts Options) ([]string, string, State) {
	line := NormalizeWhitespace(strings.TrimSpace(raw), opts)

	switch Classify(raw, line, st, opts) {
	case Blank:
		return out, "", st
	case Bullet:
		return terminateLast(out), line, st
	case ParagraphContinuation:
		out = terminateLast(out)
		line = indentParagraph(line)
	}

	st.FirstLine = false

	if strings.HasPrefix(line, string(OpenQuote)) {
		st.InQuote = true
		out = terminateLast(out)
	}

	line = InsertBreaks(line, opts)

	if st.InQuote && strings.Contains(line, closeQuote) {
		line = closeQuoteLine(line, opts)
		st.InQuote = false
	}

	return out, line, st
}

// terminateLast makes sure the last emitted line ends with a newline.
func terminateLast(out []string) []string {
	if n := len(out); n > 0 && !strings.HasSuffix(out[n-1], "\n") {
		out[n-1] += "\n"
	}
	return out
}

// SplitLines splits text into lines on \n, \r\n and \r.
// A trailing line terminator does not produce an empty final line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

// LineCount returns the number of lines SplitLines would produce.
func LineCount(text string) int {
	return len(SplitLines(text))
}
