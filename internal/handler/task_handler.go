package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/cache"
	"taskboard/internal/logger"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

type LabelStore interface {
	Create(ctx context.Context, in repository.LabelInput) (*model.Label, error)
	GetAll(ctx context.Context) ([]model.Label, error)
}

type AssigneeStore interface {
	Create(ctx context.Context, in repository.AssigneeInput) (*model.Assignee, error)
	GetAll(ctx context.Context) ([]model.Assignee, error)
}

type TaskHandler struct {
	tasks     repository.TaskStore
	labels    LabelStore
	assignees AssigneeStore
	cache     *cache.BoardCache
	log       *logger.Logger
}

func NewTaskHandler(
	tasks repository.TaskStore,
	labels LabelStore,
	assignees AssigneeStore,
	boardCache *cache.BoardCache,
	log *logger.Logger,
) *TaskHandler {
	return &TaskHandler{
		tasks:     tasks,
		labels:    labels,
		assignees: assignees,
		cache:     boardCache,
		log:       log,
	}
}

// UpdateTaskRequest is a field edit. Version, when set, must match the
// stored version.
type UpdateTaskRequest struct {
	repository.TaskPatch
	Version *int `json:"version"`
}

// Board returns all tasks in board order with the label and assignee lists.
func (h *TaskHandler) Board(c *gin.Context) {
	board, err := h.cache.Board(c.Request.Context(), h.loadBoard)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *TaskHandler) loadBoard(ctx context.Context) (*model.Board, error) {
	tasks, err := h.tasks.List(ctx)
	if err != nil {
		return nil, err
	}
	labels, err := h.labels.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	assignees, err := h.assignees.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	if labels == nil {
		labels = []model.Label{}
	}
	if assignees == nil {
		assignees = []model.Assignee{}
	}
	return &model.Board{Tasks: tasks, Labels: labels, Assignees: assignees}, nil
}

// Create adds a task to the tail of the first column
func (h *TaskHandler) Create(c *gin.Context) {
	var req repository.CreateTaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	h.cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) GetByID(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	task, err := h.tasks.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Update edits title, description, labels or assignees
func (h *TaskHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	task, err := h.tasks.UpdateFields(c.Request.Context(), id, req.TaskPatch, req.Version)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	h.cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	deleted, err := h.tasks.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if !deleted {
		writeError(c, h.log, model.ErrTaskNotFound)
		return
	}
	h.cache.Invalidate(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// Move applies a drop intent and returns the authoritative columns.
func (h *TaskHandler) Move(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	var req model.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	status, err := model.ParseStatus(string(req.TargetColumn))
	if err != nil {
		writeError(c, h.log, &model.ValidationError{Field: "target_column", Reason: "unknown column"})
		return
	}
	req.TargetColumn = status

	result, err := h.tasks.Move(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if result.Moved {
		h.cache.Invalidate(c.Request.Context())
	}
	c.JSON(http.StatusOK, result)
}

func (h *TaskHandler) History(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	history, err := h.tasks.History(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
