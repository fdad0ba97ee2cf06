package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"os"
	"strings"
)

// oleSignature opens every OLE compound file. A password-protected DOCX is
// repackaged as one, so the zip reader would otherwise report it as merely
// corrupt.
var oleSignature = []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}

// DOCX extracts paragraph text from a WordprocessingML document.
type DOCX struct{}

func (DOCX) Extract(ctx context.Context, path string) (string, error) {
	head := make([]byte, len(oleSignature))
	f, err := os.Open(path)
	if err != nil {
		return "", &Error{Kind: KindUnreadable, Format: "docx", Err: err}
	}
	_, err = io.ReadFull(f, head)
	f.Close()
	if err == nil && bytes.Equal(head, oleSignature) {
		return "", &Error{Kind: KindEncrypted, Format: "docx"}
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", &Error{Kind: KindUnreadable, Format: "docx", Err: err}
	}
	defer zr.Close()

	var doc *zip.File
	for _, zf := range zr.File {
		if zf.Name == "word/document.xml" {
			doc = zf
			break
		}
	}
	if doc == nil {
		return "", &Error{Kind: KindUnreadable, Format: "docx", Err: errors.New("word/document.xml missing")}
	}

	rc, err := doc.Open()
	if err != nil {
		return "", &Error{Kind: KindUnreadable, Format: "docx", Err: err}
	}
	defer rc.Close()

	text, err := readDocumentXML(ctx, rc)
	if err != nil {
		return "", &Error{Kind: KindUnreadable, Format: "docx", Err: err}
	}
	return text, nil
}

// readDocumentXML walks the document body, collecting run text (<w:t>) and
// emitting a newline per paragraph (<w:p>).
func readDocumentXML(ctx context.Context, r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var b strings.Builder
	var inText bool
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}
