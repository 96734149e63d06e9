package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/cache"
	"taskboard/internal/logger"
	"taskboard/internal/repository"
)

type AssigneeHandler struct {
	assignees AssigneeStore
	cache     *cache.BoardCache
	log       *logger.Logger
}

func NewAssigneeHandler(assignees AssigneeStore, boardCache *cache.BoardCache, log *logger.Logger) *AssigneeHandler {
	return &AssigneeHandler{assignees: assignees, cache: boardCache, log: log}
}

func (h *AssigneeHandler) Create(c *gin.Context) {
	var req repository.AssigneeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	assignee, err := h.assignees.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	h.cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, assignee)
}

func (h *AssigneeHandler) GetAll(c *gin.Context) {
	assignees, err := h.assignees.GetAll(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, assignees)
}
