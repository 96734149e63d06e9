package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/cache"
	"taskboard/internal/logger"
	"taskboard/internal/repository"
)

// LabelHandler handles label-related HTTP requests
type LabelHandler struct {
	labels LabelStore
	cache  *cache.BoardCache
	log    *logger.Logger
}

func NewLabelHandler(labels LabelStore, boardCache *cache.BoardCache, log *logger.Logger) *LabelHandler {
	return &LabelHandler{labels: labels, cache: boardCache, log: log}
}

// Create creates a new label
func (h *LabelHandler) Create(c *gin.Context) {
	var req repository.LabelInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	label, err := h.labels.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	h.cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, label)
}

// GetAll lists labels ordered by name
func (h *LabelHandler) GetAll(c *gin.Context) {
	labels, err := h.labels.GetAll(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, labels)
}
