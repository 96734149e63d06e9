package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskboard/internal/logger"
	"taskboard/internal/model"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func writeError(c *gin.Context, log *logger.Logger, err error) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "BadRequest",
			Message: ve.Error(),
			Details: map[string]string{"field": ve.Field, "reason": ve.Reason},
		})
	case errors.Is(err, model.ErrTaskNotFound),
		errors.Is(err, model.ErrLabelNotFound),
		errors.Is(err, model.ErrAssigneeNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "NotFound", Message: err.Error()})
	case errors.Is(err, model.ErrVersionConflict):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "Conflict",
			Message: "task was modified by another client, reload and retry",
		})
	default:
		_ = c.Error(err)
		log.Errorw("http_internal_error", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "InternalServerError",
			Message: "internal error",
		})
	}
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "BadRequest",
		Message: "malformed request body",
		Details: map[string]string{"field": "body", "reason": err.Error()},
	})
}

func parseID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, &model.ValidationError{Field: "id", Reason: "must be a UUID"}
	}
	return id, nil
}
