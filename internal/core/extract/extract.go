// Package extract turns stored documents into plain text. Failures carry a
// Kind so callers branch on structured identity, never on message text.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Kind classifies extraction failures.
type Kind string

const (
	KindUnsupportedFormat Kind = "unsupported_format"
	KindUnreadable        Kind = "unreadable"
	KindEncrypted         Kind = "encrypted"
	KindInsufficientText  Kind = "insufficient_text"
)

// Error is a typed extraction failure. Its message is written for end
// users; the runner records it verbatim on the failed job.
type Error struct {
	Kind   Kind
	Format string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindUnsupportedFormat:
		return fmt.Sprintf("unsupported file type: %s", e.Format)
	case KindEncrypted:
		return fmt.Sprintf("cannot read password-protected %s file", strings.ToUpper(e.Format))
	case KindInsufficientText:
		return "document has no extractable text; it may be a scanned image"
	default:
		return fmt.Sprintf("unable to read %s file", strings.ToUpper(e.Format))
	}
}

func (e *Error) Unwrap() error { return e.Err }

// DefaultMinTextChars is the shortest extracted text accepted as a real
// text layer; anything below it is treated as a scanned image.
const DefaultMinTextChars = 50

// Extractor converts one document format into plain text.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// Registry routes a document to the extractor for its declared format and
// enforces the minimum-text policy on whatever comes back. Register all
// formats before first use; the map is not guarded.
type Registry struct {
	minChars int
	byFormat map[string]Extractor
}

func NewRegistry(minChars int) *Registry {
	if minChars <= 0 {
		minChars = DefaultMinTextChars
	}
	return &Registry{
		minChars: minChars,
		byFormat: make(map[string]Extractor),
	}
}

func (r *Registry) Register(format string, e Extractor) {
	r.byFormat[strings.ToLower(format)] = e
}

// Supports reports whether a format tag has a registered extractor.
func (r *Registry) Supports(format string) bool {
	_, ok := r.byFormat[strings.ToLower(format)]
	return ok
}

// Extract picks the extractor by the file's format tag and returns trimmed
// text of at least the minimum length.
func (r *Registry) Extract(ctx context.Context, path string) (string, error) {
	format := FormatOf(path)
	e, ok := r.byFormat[format]
	if !ok {
		return "", &Error{Kind: KindUnsupportedFormat, Format: format}
	}

	text, err := e.Extract(ctx, path)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < r.minChars {
		return "", &Error{Kind: KindInsufficientText, Format: format}
	}
	return text, nil
}

// FormatOf derives the lowercase format tag from a file name.
func FormatOf(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}
