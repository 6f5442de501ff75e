package settings

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/glotline/smart-translate/internal/logger"
)

// Handler exposes the settings store over HTTP.
type Handler struct {
	store  *Store
	logger *logger.Logger
}

// NewHandler creates a settings handler.
func NewHandler(store *Store, log *logger.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: log.WithComponent("settings-handler"),
	}
}

// settingsView is the API shape of the settings document. The credential is
// reduced to a presence/validity pair; the secret itself never leaves the
// server.
type settingsView struct {
	GeminiKeyConfigured bool   `json:"gemini_key_configured"`
	GeminiKeyValid      bool   `json:"gemini_key_valid"`
	TargetLang          string `json:"target_lang"`
	EngineMode          string `json:"engine_mode"`
	GeminiModel         string `json:"gemini_model"`
	HistoryMaxSize      int    `json:"history_max_size"`
}

func viewOf(s Settings) settingsView {
	return settingsView{
		GeminiKeyConfigured: s.GeminiAPIKey != "",
		GeminiKeyValid:      s.GeminiKeyValid,
		TargetLang:          s.TargetLang,
		EngineMode:          s.EngineMode,
		GeminiModel:         s.GeminiModel,
		HistoryMaxSize:      s.HistoryMaxSize,
	}
}

// GetSettings handles GET /api/v1/settings.
func (h *Handler) GetSettings(c *gin.Context) {
	current, err := h.store.Get(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to read settings", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read settings"})
		return
	}

	c.JSON(http.StatusOK, viewOf(current))
}

// UpdateSettings handles PUT /api/v1/settings with a partial body.
func (h *Handler) UpdateSettings(c *gin.Context) {
	var patch Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if patch.EngineMode != nil {
		switch *patch.EngineMode {
		case "smart", "google", "gemini":
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "engine_mode must be smart, google, or gemini"})
			return
		}
	}

	updated, err := h.store.Set(c.Request.Context(), patch)
	if err != nil {
		h.logger.Error("failed to update settings", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update settings"})
		return
	}

	h.logger.Info("settings updated",
		slog.String("engine_mode", updated.EngineMode),
		slog.String("target_lang", updated.TargetLang))

	c.JSON(http.StatusOK, viewOf(updated))
}
