// Package materialize decides how generated images reach the caller: written
// to a store and referenced by URL, or embedded inline as base64.
package materialize

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"imageeditor/internal/providers/gemini"
)

// Result is one entry of the response "results" array.
type Result struct {
	Type     string `json:"type"`
	Data     string `json:"data,omitempty"`
	URL      string `json:"url,omitempty"`
	MIMEType string `json:"mimeType,omitempty"`
	Filename string `json:"filename"`
}

// Materializer turns generated images into response entries. prefix names
// the kind of output, e.g. "child_image".
type Materializer interface {
	Materialize(ctx context.Context, prefix string, images []gemini.Image) ([]Result, error)
}

// Putter stores a blob under a key and returns the canonical key.
// *storage.FileStore and *storage.S3Store satisfy it.
type Putter interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Namer produces "{prefix}_{unixMillis}_{seq}.{ext}" file names. The sequence
// is shared by every caller in the process, so names stay unique even when
// two responses are produced within the same millisecond.
type Namer struct {
	now func() time.Time
	seq atomic.Uint64
}

// NewNamer returns a Namer using now as its clock; nil means time.Now.
func NewNamer(now func() time.Time) *Namer {
	if now == nil {
		now = time.Now
	}
	return &Namer{now: now}
}

// Next returns a fresh file name for an image of the given MIME type.
func (n *Namer) Next(prefix, mimeType string) string {
	seq := n.seq.Add(1) - 1
	return fmt.Sprintf("%s_%d_%d.%s", prefix, n.now().UnixMilli(), seq, Extension(mimeType))
}

// Extension maps a MIME type to a file extension without the dot. Empty MIME
// types are treated as PNG; unknown ones get "bin".
func Extension(mimeType string) string {
	mimeType = strings.TrimSpace(mimeType)
	if mimeType == "" {
		mimeType = gemini.DefaultMIMEType
	}
	if mediaType, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = mediaType
	}
	mt := mimetype.Lookup(mimeType)
	if mt == nil || mt.Extension() == "" {
		return "bin"
	}
	return strings.TrimPrefix(mt.Extension(), ".")
}

// Inline returns each image base64-encoded in the response body. It never
// touches disk, which suits stateless function deployments.
type Inline struct {
	namer *Namer
}

// NewInline builds the inline materializer.
func NewInline(namer *Namer) *Inline {
	if namer == nil {
		namer = NewNamer(nil)
	}
	return &Inline{namer: namer}
}

// Materialize implements Materializer.
func (m *Inline) Materialize(ctx context.Context, prefix string, images []gemini.Image) ([]Result, error) {
	results := make([]Result, 0, len(images))
	for _, img := range images {
		results = append(results, Result{
			Type:     "image",
			Data:     base64.StdEncoding.EncodeToString(img.Data),
			MIMEType: img.MIMEType,
			Filename: m.namer.Next(prefix, img.MIMEType),
		})
	}
	return results, nil
}

// Stored writes each image through a Putter and answers with its URL. With a
// FileStore it is the disk-backed variant; with an S3Store it is the bucket
// variant.
type Stored struct {
	store   Putter
	baseURL string
	namer   *Namer
}

// NewDisk serves files written to store under urlPrefix, e.g. "/generated".
func NewDisk(store Putter, urlPrefix string, namer *Namer) *Stored {
	return newStored(store, "/"+strings.Trim(urlPrefix, "/"), namer)
}

// NewObject references uploaded objects under publicBaseURL, e.g.
// "https://cdn.example.com".
func NewObject(store Putter, publicBaseURL string, namer *Namer) *Stored {
	return newStored(store, strings.TrimRight(publicBaseURL, "/"), namer)
}

func newStored(store Putter, baseURL string, namer *Namer) *Stored {
	if namer == nil {
		namer = NewNamer(nil)
	}
	return &Stored{store: store, baseURL: baseURL, namer: namer}
}

// Materialize implements Materializer. The first failed write aborts the
// whole response.
func (m *Stored) Materialize(ctx context.Context, prefix string, images []gemini.Image) ([]Result, error) {
	results := make([]Result, 0, len(images))
	for _, img := range images {
		filename := m.namer.Next(prefix, img.MIMEType)
		key, err := m.store.Put(ctx, filename, img.Data, img.MIMEType)
		if err != nil {
			return nil, fmt.Errorf("materialize %s: %w", filename, err)
		}
		results = append(results, Result{
			Type:     "image",
			URL:      m.baseURL + "/" + key,
			MIMEType: img.MIMEType,
			Filename: filename,
		})
	}
	return results, nil
}

var (
	_ Materializer = (*Inline)(nil)
	_ Materializer = (*Stored)(nil)
)
