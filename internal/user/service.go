package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/taskboard/taskboard-api/internal/logging"
)

// ErrWrongPassword is returned by ChangePassword when the current
// password re-verification fails; the stored password stays valid.
var ErrWrongPassword = errors.New("current password is incorrect")

// PasswordHasher is implemented by auth.Hasher; declared here so the
// profile service does not depend on the auth package.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// ProfileUpdate carries the optional profile fields of an update
// request. Nil means "leave unchanged".
type ProfileUpdate struct {
	Name     string
	Email    string
	Settings *SettingsUpdate
}

// SettingsUpdate carries the optional settings fields of an update request
type SettingsUpdate struct {
	NotificationEmail *string
	Theme             *string
	DefaultTaskStatus *string
}

// Service handles account operations on the user aggregate
type Service struct {
	users  Store
	hasher PasswordHasher
	logger *logging.Logger
}

func NewService(users Store, hasher PasswordHasher, logger *logging.Logger) *Service {
	return &Service{users: users, hasher: hasher, logger: logger}
}

// Profile returns the user aggregate by id
func (s *Service) Profile(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateProfile merges the provided fields into the stored profile and
// saves the aggregate. A duplicate email surfaces as ErrDuplicateEmail.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != "" {
		u.Name = strings.TrimSpace(update.Name)
	}
	if update.Email != "" {
		u.Email = strings.ToLower(strings.TrimSpace(update.Email))
	}
	if update.Settings != nil {
		if v := update.Settings.NotificationEmail; v != nil {
			u.Settings.NotificationEmail = *v
		}
		if v := update.Settings.Theme; v != nil {
			u.Settings.Theme = *v
		}
		if v := update.Settings.DefaultTaskStatus; v != nil {
			u.Settings.DefaultTaskStatus = *v
		}
	}

	if err := s.users.Save(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	return u, nil
}

// ChangePassword re-verifies the current password before hashing and
// storing the new one. On a wrong current password nothing changes.
func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, currentPassword, newPassword string) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(u.PasswordHash, currentPassword) {
		return ErrWrongPassword
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	u.PasswordHash = passwordHash
	if err := s.users.Save(ctx, u); err != nil {
		return fmt.Errorf("failed to save password: %w", err)
	}

	return nil
}

// DeleteAccount removes the user row and, with it, every embedded task.
// Nothing has to cascade.
func (s *Service) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return s.users.Delete(ctx, id)
}
