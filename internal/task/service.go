package task

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskboard/taskboard-api/internal/logging"
	"github.com/taskboard/taskboard-api/internal/user"
)

// ErrNotFound is returned when a task id does not exist in the owner's list.
var ErrNotFound = errors.New("task not found")

// CreateInput carries the fields for a new task. Status falls back to
// pending when empty.
type CreateInput struct {
	Title       string
	Description string
	Status      string
	DueDate     *time.Time
}

// UpdateInput carries a partial task update. Nil fields are left
// unchanged. DueDateSet marks that the due date was provided at all,
// so a nil DueDate with DueDateSet clears it.
type UpdateInput struct {
	Title       *string
	Description *string
	Status      *string
	DueDate     *time.Time
	DueDateSet  bool
}

// Service implements task operations on top of the user aggregate.
// Every mutation loads the owner, edits the embedded task list and
// writes the whole document back in one save.
type Service struct {
	users  user.Store
	logger *logging.Logger
}

func NewService(users user.Store, logger *logging.Logger) *Service {
	return &Service{users: users, logger: logger}
}

// List returns the owner's tasks.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]user.Task, error) {
	u, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if u.Tasks == nil {
		return []user.Task{}, nil
	}
	return u.Tasks, nil
}

// Create appends a new task to the owner's list.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, input CreateInput) (*user.Task, error) {
	u, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = user.TaskStatusPending
	}

	now := time.Now()
	t := user.Task{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Status:      status,
		DueDate:     input.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	u.Tasks = append(u.Tasks, t)
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("task created", "user_id", ownerID, "task_id", t.ID)

	return &t, nil
}

// Update applies a partial update to one of the owner's tasks.
func (s *Service) Update(ctx context.Context, ownerID, taskID uuid.UUID, input UpdateInput) (*user.Task, error) {
	u, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	t := u.FindTask(taskID)
	if t == nil {
		return nil, ErrNotFound
	}

	if input.Title != nil {
		t.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		t.Description = *input.Description
	}
	if input.Status != nil {
		t.Status = *input.Status
	}
	if input.DueDateSet {
		t.DueDate = input.DueDate
	}
	t.UpdatedAt = time.Now()

	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("task updated", "user_id", ownerID, "task_id", taskID)

	updated := *t
	return &updated, nil
}

// Delete removes one of the owner's tasks.
func (s *Service) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	u, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return err
	}

	if !u.RemoveTask(taskID) {
		return ErrNotFound
	}

	if err := s.users.Save(ctx, u); err != nil {
		return err
	}

	s.logger.Info("task deleted", "user_id", ownerID, "task_id", taskID)

	return nil
}
