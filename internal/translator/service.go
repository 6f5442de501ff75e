// Package translator orchestrates engine selection, the credential-failure
// fallback, and history recording for a single translation request.
package translator

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/glotline/smart-translate/internal/engine"
	"github.com/glotline/smart-translate/internal/history"
	"github.com/glotline/smart-translate/internal/language"
	"github.com/glotline/smart-translate/internal/logger"
	"github.com/glotline/smart-translate/internal/metrics"
	"github.com/glotline/smart-translate/internal/routing"
	"github.com/glotline/smart-translate/internal/settings"
)

// ErrEmptyText is returned when the request carries no translatable text.
var ErrEmptyText = errors.New("translator: empty text")

// GeminiFactory builds a generative adapter for the model and credential
// currently stored in settings. The factory runs per request so key and
// model changes take effect without a restart.
type GeminiFactory func(model, apiKey string) engine.Translator

// Request is one translation job.
type Request struct {
	Text string
	// TargetLang overrides the configured target language when set.
	TargetLang string
}

// Result is a completed translation.
type Result struct {
	Text       string
	Engine     engine.Name
	Model      string
	SourceLang string
	TargetLang string
}

// Service runs the translation pipeline.
type Service struct {
	settings *settings.Store
	history  *history.Store
	google   engine.Translator
	gemini   GeminiFactory
	detector language.Detector
	logger   *logger.Logger
}

func NewService(
	settingsStore *settings.Store,
	historyStore *history.Store,
	googleAdapter engine.Translator,
	geminiFactory GeminiFactory,
	detector language.Detector,
	log *logger.Logger,
) *Service {
	return &Service{
		settings: settingsStore,
		history:  historyStore,
		google:   googleAdapter,
		gemini:   geminiFactory,
		detector: detector,
		logger:   log.WithComponent("translator"),
	}
}

// Translate picks an engine for the request, runs it, falls back to the
// phrase engine when the generative credential is rejected, and records the
// outcome in history.
func (s *Service) Translate(ctx context.Context, req Request) (Result, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return Result{}, ErrEmptyText
	}

	current, err := s.settings.Get(ctx)
	if err != nil {
		return Result{}, err
	}

	targetLang := current.TargetLang
	if req.TargetLang != "" {
		targetLang = req.TargetLang
	}

	decision := routing.Decide(text, routing.Mode(current.EngineMode), current.GeminiModel)

	// Without a stored credential the generative engine cannot serve, so
	// the request is routed to the phrase engine without surfacing an error.
	if decision.Engine == routing.EngineGemini && current.GeminiAPIKey == "" {
		s.logger.WithContext(ctx).Debug("no generative credential configured, using phrase engine")
		decision = routing.Decision{Engine: routing.EngineGoogle}
	}

	result, err := s.run(ctx, decision, current, text, targetLang)
	if err != nil {
		metrics.TranslationErrorsTotal.WithLabelValues(string(result.Engine), errorKind(err)).Inc()
		return Result{}, err
	}

	metrics.TranslationsTotal.WithLabelValues(string(result.Engine)).Inc()

	result.SourceLang = language.EstimateSourceWith(s.detector, text)
	result.TargetLang = targetLang
	s.record(ctx, text, result)

	return result, nil
}

// run executes the decided engine. A credential rejection from the
// generative engine marks the stored key invalid and retries the phrase
// engine exactly once; every other error propagates unchanged.
func (s *Service) run(ctx context.Context, decision routing.Decision, current settings.Settings, text, targetLang string) (Result, error) {
	if decision.Engine == routing.EngineGoogle {
		translated, err := s.google.Translate(ctx, text, targetLang)
		if err != nil {
			return Result{Engine: engine.Google}, err
		}
		return Result{Text: translated, Engine: engine.Google}, nil
	}

	adapter := s.gemini(decision.Model, current.GeminiAPIKey)
	translated, err := adapter.Translate(ctx, text, targetLang)
	if err == nil {
		if markErr := s.settings.MarkKeyValid(ctx, true); markErr != nil {
			s.logger.LogError(ctx, markErr, "failed to mark credential valid")
		}
		return Result{Text: translated, Engine: engine.Gemini, Model: decision.Model}, nil
	}

	if !engine.IsInvalidCredential(err) {
		return Result{Engine: engine.Gemini}, err
	}

	s.logger.WithContext(ctx).Warn("generative credential rejected, falling back to phrase engine",
		slog.String("model", decision.Model))
	metrics.CredentialFallbacksTotal.Inc()

	if markErr := s.settings.MarkKeyValid(ctx, false); markErr != nil {
		s.logger.LogError(ctx, markErr, "failed to mark credential invalid")
	}

	translated, err = s.google.Translate(ctx, text, targetLang)
	if err != nil {
		return Result{Engine: engine.Google}, err
	}
	return Result{Text: translated, Engine: engine.Google}, nil
}

// record appends the finished translation to history. A failed append is
// logged and swallowed so persistence trouble never fails a translation the
// user already has.
func (s *Service) record(ctx context.Context, original string, result Result) {
	err := s.history.Append(ctx, history.Record{
		Original:   original,
		Translated: result.Text,
		Engine:     string(result.Engine),
		TargetLang: result.TargetLang,
		SourceLang: result.SourceLang,
		Model:      result.Model,
	})
	if err != nil {
		s.logger.LogError(ctx, err, "failed to append history record")
	}
}

func errorKind(err error) string {
	var netErr *engine.NetworkError
	var emptyErr *engine.EmptyResultError
	switch {
	case engine.IsInvalidCredential(err):
		return "invalid_credential"
	case errors.As(err, &netErr):
		return "network"
	case errors.As(err, &emptyErr):
		return "empty_result"
	default:
		return "other"
	}
}
