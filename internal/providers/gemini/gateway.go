package gemini

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"google.golang.org/genai"

	"imageeditor/internal/infra"
)

// DefaultModel is the image-capable Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash-image-preview"

// DefaultMIMEType is assumed for inline parts that arrive without one.
const DefaultMIMEType = "image/png"

// MaxInputImages bounds the conditioning images of a single request.
const MaxInputImages = 2

// ErrTooManyImages is returned when a request carries more than MaxInputImages.
var ErrTooManyImages = errors.New("gemini: too many input images")

// Image is a binary payload plus its MIME type, used both for conditioning
// inputs and for generated outputs.
type Image struct {
	Data     []byte
	MIMEType string
}

// Request is one generation call: instruction text plus 0-2 images in order.
type Request struct {
	Prompt string
	Images []Image
}

// Result accumulates a drained stream: inline images in arrival order and
// every text fragment concatenated.
type Result struct {
	Images []Image
	Text   string
}

// ContentStreamer is the slice of the SDK the gateway depends on. *genai.Models
// satisfies it.
type ContentStreamer interface {
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
}

// Options controls how the SDK client is configured.
type Options struct {
	APIKey  string
	BaseURL string
}

// NewClient constructs the Gemini API client. Callers own the returned client
// and pass its Models to New.
func NewClient(ctx context.Context, opts Options) (*genai.Client, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return client, nil
}

// Gateway wraps the streamed generation call.
type Gateway struct {
	models ContentStreamer
	model  string
	logger *infra.Logger
}

// New builds a gateway around an explicitly constructed client.
func New(models ContentStreamer, model string, logger *infra.Logger) *Gateway {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = infra.NopLogger()
	}
	return &Gateway{models: models, model: model, logger: logger}
}

// Model returns the configured model identifier.
func (g *Gateway) Model() string {
	return g.model
}

// Generate sends the request and drains the response stream. A stream error
// discards everything received so far.
func (g *Gateway) Generate(ctx context.Context, req Request) (*Result, error) {
	if len(req.Images) > MaxInputImages {
		return nil, ErrTooManyImages
	}

	contents := []*genai.Content{buildContent(req)}
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	}

	result := &Result{}
	var text strings.Builder
	chunks := 0
	for resp, err := range g.models.GenerateContentStream(ctx, g.model, contents, config) {
		if err != nil {
			return nil, fmt.Errorf("gemini: stream: %w", err)
		}
		chunks++
		for _, part := range chunkParts(resp) {
			switch {
			case part == nil:
			case part.InlineData != nil:
				mimeType := part.InlineData.MIMEType
				if mimeType == "" {
					mimeType = DefaultMIMEType
				}
				result.Images = append(result.Images, Image{Data: part.InlineData.Data, MIMEType: mimeType})
			case part.Text != "":
				text.WriteString(part.Text)
			}
		}
	}
	result.Text = text.String()

	g.logger.Debug().
		Str("model", g.model).
		Int("chunks", chunks).
		Int("images", len(result.Images)).
		Int("text_len", len(result.Text)).
		Msg("gemini: stream drained")

	return result, nil
}

func buildContent(req Request) *genai.Content {
	parts := make([]*genai.Part, 0, len(req.Images)+1)
	parts = append(parts, &genai.Part{Text: req.Prompt})
	for _, img := range req.Images {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				Data:     img.Data,
				MIMEType: img.MIMEType,
			},
		})
	}
	return &genai.Content{Role: "user", Parts: parts}
}

// chunkParts returns the parts of the first candidate, or nil when the chunk
// carries none.
func chunkParts(resp *genai.GenerateContentResponse) []*genai.Part {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return nil
	}
	return candidate.Content.Parts
}
