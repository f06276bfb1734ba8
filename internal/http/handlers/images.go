package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"imageeditor/internal/materialize"
	"imageeditor/internal/middleware"
	"imageeditor/internal/prompt"
	"imageeditor/internal/providers/gemini"
	"imageeditor/internal/upload"
)

// endpoint is everything that differs between the generation routes once the
// gemini.Request has been built.
type endpoint struct {
	name        string
	filePrefix  string
	defaultText string
	failure     string
}

var (
	generateImageEndpoint = endpoint{
		name:        "generate-image",
		filePrefix:  "generated_image",
		defaultText: "Image generation completed successfully!",
		failure:     "Failed to generate image",
	}
	manipulateImageEndpoint = endpoint{
		name:        "manipulate-image",
		filePrefix:  "manipulated_image",
		defaultText: "Image manipulation completed successfully!",
		failure:     "Failed to process image",
	}
	generateChildEndpoint = endpoint{
		name:        "generate-child",
		filePrefix:  "child_image",
		defaultText: "Child generation completed successfully!",
		failure:     "Failed to generate child image",
	}
)

type generationResponse struct {
	Success      bool                 `json:"success"`
	Results      []materialize.Result `json:"results"`
	TextResponse string               `json:"textResponse"`
	Prompt       string               `json:"prompt"`
}

type generateImageRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateImage handles POST /api/generate-image with a JSON {prompt} body.
func (a *App) GenerateImage(w http.ResponseWriter, r *http.Request) {
	a.limitBody(w, r)
	var req generateImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if isTooLarge(err) {
			a.error(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		a.error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	text := strings.TrimSpace(req.Prompt)
	if text == "" {
		a.error(w, http.StatusBadRequest, "No prompt provided")
		return
	}

	a.generate(w, r, generateImageEndpoint, gemini.Request{Prompt: text}, text)
}

// ManipulateImage handles POST /api/manipulate-image with multipart fields
// image (file) and prompt (text).
func (a *App) ManipulateImage(w http.ResponseWriter, r *http.Request) {
	parts, ok := a.parseMultipart(w, r, manipulateImageEndpoint)
	if !ok {
		return
	}
	image, ok := parts.File("image")
	if !ok {
		a.error(w, http.StatusBadRequest, "No image file provided")
		return
	}
	text := parts.Text("prompt")
	if text == "" {
		a.error(w, http.StatusBadRequest, "No prompt provided")
		return
	}

	req := gemini.Request{
		Prompt: text,
		Images: []gemini.Image{partImage(image)},
	}
	a.generate(w, r, manipulateImageEndpoint, req, text)
}

// GenerateChild handles POST /api/generate-child with multipart fields
// parent1 (required file), parent2 (optional file) and prompt (optional text).
func (a *App) GenerateChild(w http.ResponseWriter, r *http.Request) {
	parts, ok := a.parseMultipart(w, r, generateChildEndpoint)
	if !ok {
		return
	}
	parent1, ok := parts.File("parent1")
	if !ok {
		a.error(w, http.StatusBadRequest, "At least one parent image is required")
		return
	}

	images := []gemini.Image{partImage(parent1)}
	if parent2, ok := parts.File("parent2"); ok {
		images = append(images, partImage(parent2))
	}
	details := parts.Text("prompt")
	echo := details
	if echo == "" {
		echo = prompt.DefaultChildPrompt
	}

	req := gemini.Request{
		Prompt: prompt.ChildInstruction(len(images), details),
		Images: images,
	}
	a.generate(w, r, generateChildEndpoint, req, echo)
}

// parseMultipart extracts the body parts. A stream that breaks off midway is
// logged and the parts read so far are used; the caller's required-field
// checks then decide the response.
func (a *App) parseMultipart(w http.ResponseWriter, r *http.Request, ep endpoint) (upload.Parts, bool) {
	a.limitBody(w, r)
	parts, err := upload.FromRequest(r)
	switch {
	case err == nil:
		return parts, true
	case errors.Is(err, upload.ErrNotMultipart), errors.Is(err, upload.ErrNoBoundary):
		a.error(w, http.StatusBadRequest, "Expected a multipart/form-data body with a boundary")
		return nil, false
	case isTooLarge(err):
		a.error(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return nil, false
	case errors.Is(err, upload.ErrPartTooLarge):
		a.error(w, http.StatusRequestEntityTooLarge, "Uploaded file too large")
		return nil, false
	default:
		a.Logger.Warn().
			Err(err).
			Str("endpoint", ep.name).
			Str("request_id", middleware.RequestIDFromContext(r.Context())).
			Msg("multipart body ended early; using parts read so far")
		if parts == nil {
			parts = upload.Parts{}
		}
		return parts, true
	}
}

// generate is the pipeline shared by every route: call the model, drain the
// stream, materialize the images, answer with JSON.
func (a *App) generate(w http.ResponseWriter, r *http.Request, ep endpoint, req gemini.Request, echo string) {
	ctx := r.Context()
	log := a.Logger.With().
		Str("endpoint", ep.name).
		Str("request_id", middleware.RequestIDFromContext(ctx)).
		Logger()

	log.Info().
		Str("prompt", echo).
		Int("input_images", len(req.Images)).
		Msg("generation started")

	result, err := a.Gateway.Generate(ctx, req)
	if err != nil {
		log.Error().Err(err).Msg(ep.failure)
		a.failure(w, ep.failure, err)
		return
	}

	results, err := a.Results.Materialize(ctx, ep.filePrefix, result.Images)
	if err != nil {
		log.Error().Err(err).Msg(ep.failure)
		a.failure(w, ep.failure, err)
		return
	}
	if results == nil {
		results = []materialize.Result{}
	}

	text := result.Text
	if text == "" {
		text = ep.defaultText
	}

	log.Info().
		Int("images", len(results)).
		Msg("generation completed")

	a.json(w, http.StatusOK, generationResponse{
		Success:      true,
		Results:      results,
		TextResponse: text,
		Prompt:       echo,
	})
}

func partImage(p upload.Part) gemini.Image {
	return gemini.Image{Data: p.Content, MIMEType: p.ContentType}
}
