// Package upload extracts named fields and files from multipart/form-data
// request bodies.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	// ErrNotMultipart is returned when the request is not multipart/form-data.
	ErrNotMultipart = errors.New("upload: content type is not multipart/form-data")
	// ErrNoBoundary is returned when the multipart content type carries no boundary.
	ErrNoBoundary = errors.New("upload: missing multipart boundary")
	// ErrPartTooLarge is returned when a single part exceeds MaxPartBytes.
	ErrPartTooLarge = errors.New("upload: part exceeds size limit")
)

// MaxPartBytes caps the payload of any single part.
const MaxPartBytes = 10 << 20

// Part is a single named field of a multipart body. File parts carry Content
// and ContentType; text parts carry Value.
type Part struct {
	FieldName   string
	FileName    string
	ContentType string
	Content     []byte
	Value       string
}

// IsFile reports whether the part was sent as a file.
func (p Part) IsFile() bool {
	return p.Content != nil
}

// Parts indexes extracted parts by field name. The first occurrence of a
// field wins.
type Parts map[string]Part

// File returns the named file part when present with a non-empty payload.
func (ps Parts) File(name string) (Part, bool) {
	p, ok := ps[name]
	if !ok || len(p.Content) == 0 {
		return Part{}, false
	}
	return p, true
}

// Text returns the trimmed value of the named text field, or "".
func (ps Parts) Text(name string) string {
	p, ok := ps[name]
	if !ok || p.IsFile() {
		return ""
	}
	return p.Value
}

// BoundaryFromContentType returns the boundary parameter of a
// multipart/form-data content type.
func BoundaryFromContentType(contentType string) (string, error) {
	if strings.TrimSpace(contentType) == "" {
		return "", ErrNotMultipart
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("upload: parse content type: %w", err)
	}
	if mediaType != "multipart/form-data" {
		return "", ErrNotMultipart
	}
	boundary := params["boundary"]
	if boundary == "" {
		return "", ErrNoBoundary
	}
	return boundary, nil
}

// FromRequest extracts the parts of a multipart/form-data request.
func FromRequest(r *http.Request) (Parts, error) {
	boundary, err := BoundaryFromContentType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	return Extract(r.Body, boundary)
}

// Extract reads every part between boundary delimiters. A malformed or
// truncated body stops the scan: the parts read so far are returned together
// with the error, and the caller decides whether the missing parts matter.
func Extract(body io.Reader, boundary string) (Parts, error) {
	return extract(body, boundary, MaxPartBytes)
}

func extract(body io.Reader, boundary string, maxPartBytes int64) (Parts, error) {
	parts := make(Parts)
	if body == nil {
		return parts, nil
	}
	reader := multipart.NewReader(body, boundary)
	for {
		p, err := reader.NextPart()
		if err == io.EOF {
			return parts, nil
		}
		if err != nil {
			return parts, fmt.Errorf("upload: next part: %w", err)
		}

		part, err := readPart(p, maxPartBytes)
		_ = p.Close()
		if err != nil {
			return parts, err
		}
		if part.FieldName == "" {
			continue
		}
		if _, seen := parts[part.FieldName]; seen {
			continue
		}
		if part.IsFile() && len(part.Content) == 0 {
			continue
		}
		if !part.IsFile() && part.Value == "" {
			continue
		}
		parts[part.FieldName] = part
	}
}

func readPart(p *multipart.Part, maxPartBytes int64) (Part, error) {
	data, err := io.ReadAll(io.LimitReader(p, maxPartBytes+1))
	if err != nil {
		return Part{}, fmt.Errorf("upload: read part %q: %w", p.FormName(), err)
	}
	if int64(len(data)) > maxPartBytes {
		return Part{}, fmt.Errorf("upload: read part %q: %w", p.FormName(), ErrPartTooLarge)
	}

	part := Part{
		FieldName: p.FormName(),
		FileName:  p.FileName(),
	}
	contentType := strings.TrimSpace(p.Header.Get("Content-Type"))
	// Without a filename a part is a field, even when the client labels it
	// text/plain.
	if part.FileName == "" && isTextType(contentType) {
		part.Value = strings.TrimSpace(string(data))
		return part, nil
	}

	if data == nil {
		data = []byte{}
	}
	if contentType == "" && len(data) > 0 {
		contentType = detectContentType(data)
	}
	part.Content = data
	part.ContentType = contentType
	return part, nil
}

func isTextType(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "text/")
}

func detectContentType(data []byte) string {
	mt := mimetype.Detect(data)
	if mt == nil {
		return "application/octet-stream"
	}
	// Drop parameters such as charset; the model only wants the media type.
	if mediaType, _, err := mime.ParseMediaType(mt.String()); err == nil {
		return mediaType
	}
	return mt.String()
}

