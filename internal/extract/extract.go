// Package extract obtains the raw text of input documents.
//
// PDF files are read with ledongthuc/pdf, which only sees the embedded text
// layer; scanned (image-only) PDFs yield ErrNoText. Plain-text files are read
// as UTF-8. Output is NFC-normalized because PDF fonts often emit kana and
// their voicing marks as separate code points.
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"
)

// Supported input extensions.
const (
	ExtPDF  = ".pdf"
	ExtText = ".txt"
)

// Extractor returns the text of the document at path.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// FileExtractor dispatches on the file extension.
type FileExtractor struct{}

// NewFileExtractor returns an extractor for PDF and plain-text files.
func NewFileExtractor() *FileExtractor {
	return &FileExtractor{}
}

// Supported reports whether path has an extension FileExtractor handles.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtPDF, ExtText:
		return true
	default:
		return false
	}
}

// Extract reads path and returns its NFC-normalized text.
// A document without any non-whitespace text yields ErrNoText.
func (e *FileExtractor) Extract(ctx context.Context, path string) (string, error) {
	var (
		text string
		err  error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ExtPDF:
		text, err = extractPDF(ctx, path)
	case ExtText:
		text, err = extractText(path)
	default:
		return "", fmt.Errorf("%w %q: %s", ErrUnsupportedFormat, ext, path)
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s", ErrNoText, path)
	}
	return norm.NFC.String(text), nil
}

func extractText(path string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-specified input file
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrOpen, err)
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}

// extractPDF concatenates the plain text of every page, one "\n" after each.
func extractPDF(ctx context.Context, path string) (text string, err error) {
	// The parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: %s: %v", ErrOpen, path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrOpen, path, err)
	}
	defer func() { _ = f.Close() }()

	fonts := make(map[string]*pdf.Font)
	var b strings.Builder

	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := p.Font(name)
				fonts[name] = &font
			}
		}

		pageText, err := p.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("%w: %s: page %d: %w", ErrOpen, path, i, err)
		}
		if pageText != "" {
			b.WriteString(pageText)
			b.WriteString("\n")
		}
	}

	return b.String(), nil
}

// Compile-time interface verification.
var _ Extractor = (*FileExtractor)(nil)
