package user

import (
	"time"

	"github.com/google/uuid"
)

// Task statuses
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in-progress"
	TaskStatusCompleted  = "completed"
)

// Notification email preferences
const (
	NotifyImmediate = "immediate"
	NotifyDaily     = "daily"
	NotifyWeekly    = "weekly"
	NotifyNone      = "none"
)

// Themes
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// User is the aggregate root: tasks live inside the user record and
// have no lifecycle of their own. Every mutation saves the whole aggregate.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"` // stored lowercase, globally unique
	PasswordHash string    `json:"-"`     // never expose password hash in JSON
	Settings     Settings  `json:"settings"`
	Tasks        []Task    `json:"tasks"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Settings holds per-user preferences
type Settings struct {
	NotificationEmail string `json:"notificationEmail"`
	Theme             string `json:"theme"`
	DefaultTaskStatus string `json:"defaultTaskStatus"`
}

// DefaultSettings returns the settings assigned at signup
func DefaultSettings() Settings {
	return Settings{
		NotificationEmail: NotifyDaily,
		Theme:             ThemeLight,
		DefaultTaskStatus: TaskStatusPending,
	}
}

// Task is an embedded sub-resource of User. Its id is only meaningful
// together with the owning user's id.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// FindTask returns a pointer into the task slice for in-place mutation,
// or nil if no task with the given id exists.
func (u *User) FindTask(taskID uuid.UUID) *Task {
	for i := range u.Tasks {
		if u.Tasks[i].ID == taskID {
			return &u.Tasks[i]
		}
	}
	return nil
}

// RemoveTask deletes the task with the given id from the slice,
// preserving order. Returns false if the task was not found.
func (u *User) RemoveTask(taskID uuid.UUID) bool {
	for i := range u.Tasks {
		if u.Tasks[i].ID == taskID {
			u.Tasks = append(u.Tasks[:i], u.Tasks[i+1:]...)
			return true
		}
	}
	return false
}
