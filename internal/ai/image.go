// README: Inline image helpers (base64 payloads from the form, media type sniffing).
package ai

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

const defaultImageType = "image/png"

// inlineImage is a base64 image normalised for provider payloads.
type inlineImage struct {
	MediaType string
	Data      string
}

// parseInlineImage strips an optional data-URI prefix and sniffs the media type.
// Undecodable payloads are passed through as image/png and left to the provider to reject.
func parseInlineImage(raw string) inlineImage {
	raw = strings.TrimSpace(raw)
	mediaType := ""
	if strings.HasPrefix(raw, "data:") {
		if meta, data, ok := strings.Cut(raw, ","); ok {
			mediaType = strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64")
			raw = data
		}
	}
	if mediaType == "" || !strings.HasPrefix(mediaType, "image/") {
		mediaType = defaultImageType
		if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
			if sniffed := http.DetectContentType(decoded); strings.HasPrefix(sniffed, "image/") {
				mediaType = sniffed
			}
		}
	}
	return inlineImage{MediaType: mediaType, Data: raw}
}

func (i inlineImage) DataURI() string {
	return "data:" + i.MediaType + ";base64," + i.Data
}

// Bytes decodes the payload for SDKs that take raw image bytes.
func (i inlineImage) Bytes() ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(i.Data)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return b, nil
}

// Format is the subtype ("png", "jpeg") of the media type.
func (i inlineImage) Format() string {
	_, sub, _ := strings.Cut(i.MediaType, "/")
	return sub
}
