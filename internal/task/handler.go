package task

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taskboard/taskboard-api/internal/httputil"
	"github.com/taskboard/taskboard-api/internal/logging"
	"github.com/taskboard/taskboard-api/internal/user"
	"github.com/taskboard/taskboard-api/internal/validation"
)

// Handler contains HTTP handlers for the task endpoints, mounted under
// /api/users/{id}/tasks behind the auth and ownership middleware.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// CreateTaskRequest represents the task creation request body
type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,max=100"`
	Description string     `json:"description" validate:"omitempty,max=500"`
	Status      string     `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
	DueDate     *time.Time `json:"dueDate"`
}

// UpdateTaskRequest represents the partial task update request body
type UpdateTaskRequest struct {
	Title       *string      `json:"title" validate:"omitempty,max=100"`
	Description *string      `json:"description" validate:"omitempty,max=500"`
	Status      *string      `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
	DueDate     NullableTime `json:"dueDate"`
}

// NullableTime distinguishes an absent dueDate from an explicit null.
// Set is true whenever the field appeared in the request body.
type NullableTime struct {
	Set   bool       `json:"-"`
	Value *time.Time `json:"-"`
}

func (n *NullableTime) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	return json.Unmarshal(data, &n.Value)
}

// List returns the caller's tasks
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User id"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Router       /api/users/{id}/tasks [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := pathOwnerID(w, r)
	if !ok {
		return
	}

	tasks, err := h.service.List(r.Context(), ownerID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, "", map[string]any{
		"tasks": tasks,
	})
}

// Create adds a task to the caller's list
// @Summary      Create task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User id"
// @Param        request body CreateTaskRequest true "Task fields"
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} httputil.ErrorResponse "Validation failure"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Router       /api/users/{id}/tasks [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := pathOwnerID(w, r)
	if !ok {
		return
	}

	req, ok := validation.DecodeValid[CreateTaskRequest](w, r)
	if !ok {
		return
	}

	// required does not catch whitespace-only titles
	if strings.TrimSpace(req.Title) == "" {
		validation.Respond(w, validation.FieldErrors{{"title": "Title cannot be empty"}})
		return
	}

	t, err := h.service.Create(r.Context(), ownerID, CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusCreated, "Task created successfully", map[string]any{
		"task": t,
	})
}

// Update applies a partial update to one task
// @Summary      Update task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User id"
// @Param        taskId path string true "Task id"
// @Param        request body UpdateTaskRequest true "Fields to update"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} httputil.ErrorResponse "Validation failure"
// @Failure      404 {object} httputil.ErrorResponse "Task not found"
// @Router       /api/users/{id}/tasks/{taskId} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := pathOwnerID(w, r)
	if !ok {
		return
	}
	taskID, ok := pathTaskID(w, r)
	if !ok {
		return
	}

	req, ok := validation.DecodeValid[UpdateTaskRequest](w, r)
	if !ok {
		return
	}

	// omitempty skips the zero string behind a pointer, so a
	// present-but-blank title needs its own check
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		validation.Respond(w, validation.FieldErrors{{"title": "Title cannot be empty"}})
		return
	}

	input := UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	}
	if req.DueDate.Set {
		input.DueDate = req.DueDate.Value
		input.DueDateSet = true
	}

	t, err := h.service.Update(r.Context(), ownerID, taskID, input)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, "Task updated successfully", map[string]any{
		"task": t,
	})
}

// Delete removes one task
// @Summary      Delete task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User id"
// @Param        taskId path string true "Task id"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} httputil.ErrorResponse "Task not found"
// @Router       /api/users/{id}/tasks/{taskId} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := pathOwnerID(w, r)
	if !ok {
		return
	}
	taskID, ok := pathTaskID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), ownerID, taskID); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, "Task deleted successfully", nil)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.GetLoggerFromContext(r.Context())

	switch {
	case errors.Is(err, ErrNotFound):
		httputil.RespondError(w, "Task not found", http.StatusNotFound)
	case errors.Is(err, user.ErrNotFound):
		httputil.RespondError(w, "User not found", http.StatusNotFound)
	default:
		logger.Error("task operation failed: internal error", "error", err.Error())
		httputil.RespondError(w, "Server Error", http.StatusInternalServerError)
	}
}

func pathOwnerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondError(w, "User not found", http.StatusNotFound)
		return uuid.Nil, false
	}
	return id, true
}

// pathTaskID parses the {taskId} path parameter. A malformed id cannot
// match any stored task, so it reads as missing.
func pathTaskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "taskId"))
	if err != nil {
		httputil.RespondError(w, "Task not found", http.StatusNotFound)
		return uuid.Nil, false
	}
	return id, true
}
