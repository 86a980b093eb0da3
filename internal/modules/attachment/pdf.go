// README: PDF attachment text extraction (base64 in, plain text out).
package attachment

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrExtraction is wrapped by every decode or parse failure.
var ErrExtraction = errors.New("pdf extraction failed")

// PDFExtractor turns a base64 PDF into plain text.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractText decodes b64 and returns the document text, or "" when the PDF has none.
// A "data:...;base64," prefix is accepted.
func (e *PDFExtractor) ExtractText(ctx context.Context, b64 string) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	raw, err := decodeBase64(b64)
	if err != nil {
		return "", fmt.Errorf("%w: decode base64: %v", ErrExtraction, err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("%w: empty document", ErrExtraction)
	}

	// The parser panics on some malformed xref tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: corrupt pdf: %v", ErrExtraction, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("%w: open pdf: %v", ErrExtraction, err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: read text: %v", ErrExtraction, err)
	}
	var buf strings.Builder
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("%w: read text: %v", ErrExtraction, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		if _, data, ok := strings.Cut(s, ","); ok {
			s = data
		}
	}
	return base64.StdEncoding.DecodeString(s)
}
