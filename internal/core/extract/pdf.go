package extract

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// PDF extracts the text layer of a PDF document.
type PDF struct{}

func (PDF) Extract(ctx context.Context, path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", &Error{Kind: KindUnreadable, Format: "pdf", Err: err}
	}
	if !bytes.HasPrefix(raw, []byte("%PDF-")) {
		return "", &Error{Kind: KindUnreadable, Format: "pdf", Err: errors.New("missing pdf header")}
	}
	// An /Encrypt entry in the trailer means the document needs a password.
	if bytes.Contains(raw, []byte("/Encrypt")) {
		return "", &Error{Kind: KindEncrypted, Format: "pdf"}
	}

	doc, err := fitz.NewFromMemory(raw)
	if err != nil {
		return "", &Error{Kind: KindUnreadable, Format: "pdf", Err: err}
	}
	defer doc.Close()

	var b strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		if err := ctx.Err(); err != nil {
			return "", &Error{Kind: KindUnreadable, Format: "pdf", Err: err}
		}
		page, err := doc.Text(n)
		if err != nil {
			return "", &Error{Kind: KindUnreadable, Format: "pdf", Err: err}
		}
		b.WriteString(page)
		b.WriteString("\n")
	}
	return b.String(), nil
}
