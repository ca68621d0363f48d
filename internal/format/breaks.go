package format

import (
	"regexp"
	"strings"
)

// englishSentenceEnd matches a period followed by spaces and a capital letter.
var englishSentenceEnd = regexp.MustCompile(`\. +([A-Z])`)

const (
	closeQuote  = string(CloseQuote)
	emptyQuote  = string(OpenQuote) + string(CloseQuote)
	reopenQuote = string(CloseQuote) + string(OpenQuote)
)

// InsertBreaks inserts a newline after every configured break character.
// This is character-level: decimal points and abbreviations break too.
func InsertBreaks(line string, opts Options) string {
	for _, r := range opts.breakChars() {
		c := string(r)
		if strings.Contains(line, c) {
			line = strings.ReplaceAll(line, c, c+"\n")
		}
	}
	if opts.EnglishMode {
		line = englishSentenceEnd.ReplaceAllString(line, ".\n$1")
	}
	return line
}

// closeQuoteLine applies the closing-quote policy to a line that ends a
// quotation span. line already has its breaks inserted.
func closeQuoteLine(line string, opts Options) string {
	if opts.QuoteBreakInside {
		if !opts.AddClosingQuote {
			return line
		}
		// Each break becomes a close-then-reopen pair; pairs left empty are dropped.
		line = strings.ReplaceAll(line, "\n", reopenQuote)
		line = strings.ReplaceAll(line, emptyQuote, "")
		return strings.ReplaceAll(line, closeQuote, closeQuote+"\n")
	}

	// Keep the closing mark attached to its sentence.
	for strings.Contains(line, "\n"+closeQuote) {
		line = strings.ReplaceAll(line, "\n"+closeQuote, closeQuote)
	}
	line = strings.ReplaceAll(line, closeQuote+"\n", closeQuote)
	return line + "\n"
}
