package history

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/glotline/smart-translate/internal/logger"
)

// Handler exposes the history log over HTTP.
type Handler struct {
	store  *Store
	logger *logger.Logger
}

func NewHandler(store *Store, log *logger.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: log.WithComponent("history-handler"),
	}
}

// ListHistory handles GET /api/v1/history.
func (h *Handler) ListHistory(c *gin.Context) {
	records, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.LogError(c.Request.Context(), err, "failed to list history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read history"})
		return
	}

	if records == nil {
		records = []Record{}
	}
	c.JSON(http.StatusOK, gin.H{"history": records})
}

// ClearHistory handles DELETE /api/v1/history.
func (h *Handler) ClearHistory(c *gin.Context) {
	if err := h.store.Clear(c.Request.Context()); err != nil {
		h.logger.LogError(c.Request.Context(), err, "failed to clear history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear history"})
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteRecord handles DELETE /api/v1/history/:id.
func (h *Handler) DeleteRecord(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing record id"})
		return
	}

	removed, err := h.store.DeleteWhere(c.Request.Context(), func(r Record) bool {
		return r.ID == id
	})
	if err != nil {
		h.logger.LogError(c.Request.Context(), err, "failed to delete history record",
			slog.String("record_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete record"})
		return
	}
	if removed == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}

	c.Status(http.StatusNoContent)
}
