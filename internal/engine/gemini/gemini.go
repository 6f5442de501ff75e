// Package gemini adapts the generative-language endpoint. The adapter builds
// a strict instructional prompt, sends it to generateContent for a chosen
// model, and extracts the first candidate's text.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/glotline/smart-translate/internal/config"
	"github.com/glotline/smart-translate/internal/engine"
	"github.com/glotline/smart-translate/internal/logger"
)

// Adapter talks to the generative-language endpoint for one model.
type Adapter struct {
	baseURL         string
	model           string
	apiKey          string
	maxOutputTokens int
	temperature     float64
	client          *http.Client
	logger          *logger.Logger
}

// New creates a Gemini adapter for the given model and credential.
func New(cfg config.GeminiEngineConfig, model, apiKey string, log *logger.Logger) *Adapter {
	return &Adapter{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		model:           model,
		apiKey:          apiKey,
		maxOutputTokens: cfg.MaxOutputTokens,
		temperature:     cfg.Temperature,
		client:          &http.Client{Timeout: cfg.RequestTimeout()},
		logger:          log.WithComponent("gemini-engine"),
	}
}

// Model returns the model identifier this adapter was built for.
func (a *Adapter) Model() string { return a.model }

// apiVersion returns the API version path segment for the model. Only the
// legacy stable model lives under v1; everything newer is v1beta.
func apiVersion(model string) string {
	if model == "gemini-pro" {
		return "v1"
	}
	return "v1beta"
}

// buildPrompt produces the instruction the model receives. It pins the target
// language, quotes the source text, and constrains the output: no
// explanations, no markdown, comma-separated senses for one ambiguous word,
// one fluent rendering for anything longer.
func buildPrompt(text, targetLang string) string {
	return fmt.Sprintf(
		"Translate the following text into %s. Reply with the translation only: "+
			"no explanations, no preamble, no markdown formatting. "+
			"If the text is a single word with several common meanings, give them "+
			"as a comma-separated list. If it is a phrase or sentence, give one "+
			"fluent translation.\n\nText: \"%s\"",
		targetLang, text)
}

// Wire shapes for the generateContent request and response.

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type candidate struct {
	Content content `json:"content"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

// Translate sends the translation prompt to the model.
//
// The credential travels in the x-goog-api-key header, never in the URL, so
// it cannot leak through request logs or referrers. An HTTP 400 is the
// backend's signal for a malformed or revoked key and surfaces as
// *engine.InvalidCredentialError so the orchestrator can fall back.
func (a *Adapter) Translate(ctx context.Context, text, targetLang string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/models/%s:generateContent",
		a.baseURL, apiVersion(a.model), a.model)

	body, err := json.Marshal(generateRequest{
		Contents: []content{
			{Parts: []part{{Text: buildPrompt(text, targetLang)}}},
		},
		GenerationConfig: generationConfig{
			MaxOutputTokens: a.maxOutputTokens,
			Temperature:     a.temperature,
		},
	})
	if err != nil {
		return "", &engine.NetworkError{Engine: engine.Gemini, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &engine.NetworkError{Engine: engine.Gemini, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", &engine.NetworkError{Engine: engine.Gemini, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		io.Copy(io.Discard, resp.Body)
		a.logger.Warn("credential rejected", slog.String("model", a.model))
		return "", &engine.InvalidCredentialError{Engine: engine.Gemini}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		a.logger.Warn("generate request failed",
			slog.String("model", a.model),
			slog.Int("status", resp.StatusCode))
		return "", &engine.NetworkError{Engine: engine.Gemini, StatusCode: resp.StatusCode}
	}

	var payload generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		a.logger.Warn("unparseable generate payload", slog.String("error", err.Error()))
		return "", &engine.EmptyResultError{Engine: engine.Gemini}
	}

	if len(payload.Candidates) == 0 || len(payload.Candidates[0].Content.Parts) == 0 {
		return "", &engine.EmptyResultError{Engine: engine.Gemini}
	}

	text = strings.TrimSpace(payload.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", &engine.EmptyResultError{Engine: engine.Gemini}
	}

	return text, nil
}
