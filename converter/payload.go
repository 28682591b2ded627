package converter

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

const (
	// EmptyMarker is what a browser canvas yields when nothing was captured.
	EmptyMarker = "data:,"

	defaultMimeType = "image/png"
)

var (
	ErrEmpty     = errors.New("empty image payload")
	ErrMalformed = errors.New("malformed data uri")
)

// Payload is a decoded image body together with its MIME type.
type Payload struct {
	Data     []byte
	MimeType string
}

// DecodeDataURI accepts either a base64 data URI or a bare base64 string.
func DecodeDataURI(s string) (Payload, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == EmptyMarker {
		return Payload{}, ErrEmpty
	}

	mimeType := ""
	raw := s
	if strings.HasPrefix(s, "data:") {
		header, body, ok := strings.Cut(s[len("data:"):], ",")
		if !ok {
			return Payload{}, ErrMalformed
		}
		mediaType, encoding, _ := strings.Cut(header, ";")
		if encoding != "base64" {
			return Payload{}, ErrMalformed
		}
		mimeType = mediaType
		raw = body
	}

	data, err := decodeBase64(raw)
	if err != nil {
		return Payload{}, ErrMalformed
	}
	if len(data) == 0 {
		return Payload{}, ErrEmpty
	}

	if mimeType == "" {
		mimeType = Sniff(data)
	}

	return Payload{Data: data, MimeType: mimeType}, nil
}

func decodeBase64(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}

// Sniff guesses the MIME type of an image body, falling back to png.
func Sniff(data []byte) string {
	ct := http.DetectContentType(data)
	if strings.HasPrefix(ct, "image/") {
		return ct
	}
	return defaultMimeType
}

// IsImage reports whether data sniffs as an image.
func IsImage(data []byte) bool {
	return len(data) > 0 && strings.HasPrefix(http.DetectContentType(data), "image/")
}

func (p Payload) Base64() string {
	return base64.StdEncoding.EncodeToString(p.Data)
}

func (p Payload) DataURI() string {
	mimeType := p.MimeType
	if mimeType == "" {
		mimeType = defaultMimeType
	}
	return "data:" + mimeType + ";base64," + p.Base64()
}

func (p Payload) Len() int {
	return len(p.Data)
}
