package translator

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/glotline/smart-translate/internal/engine"
	"github.com/glotline/smart-translate/internal/logger"
)

// Handler exposes the translation pipeline over HTTP.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log.WithComponent("translator-handler"),
	}
}

type translateRequest struct {
	Text       string `json:"text" binding:"required"`
	TargetLang string `json:"target_lang"`
}

type translateResponse struct {
	Text       string `json:"text"`
	Engine     string `json:"engine"`
	Model      string `json:"model,omitempty"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

// Translate handles POST /api/v1/translate.
func (h *Handler) Translate(c *gin.Context) {
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	result, err := h.service.Translate(c.Request.Context(), Request{
		Text:       req.Text,
		TargetLang: req.TargetLang,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, translateResponse{
		Text:       result.Text,
		Engine:     string(result.Engine),
		Model:      result.Model,
		SourceLang: result.SourceLang,
		TargetLang: result.TargetLang,
	})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var netErr *engine.NetworkError
	var emptyErr *engine.EmptyResultError
	switch {
	case errors.Is(err, ErrEmptyText):
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
	case errors.As(err, &netErr):
		h.logger.LogError(ctx, err, "upstream engine request failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "translation backend unavailable"})
	case errors.As(err, &emptyErr):
		h.logger.LogError(ctx, err, "upstream engine returned no translation")
		c.JSON(http.StatusBadGateway, gin.H{"error": "translation backend returned no result"})
	default:
		h.logger.LogError(ctx, err, "translation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "translation failed"})
	}
}
