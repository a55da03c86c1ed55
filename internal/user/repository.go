package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/taskboard/taskboard-api/internal/database"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// Store is the persistence contract for the user aggregate.
// Save always writes the whole aggregate back, which is what gives a
// task mutation and its parent's updatedAt bump document-level atomicity.
type Store interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repository handles user aggregate persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

var _ Store = (*Repository)(nil)

// Create inserts a new user aggregate
func (r *Repository) Create(ctx context.Context, u *User) error {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	dbUser, err := mapModelToDBUser(u)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	_, err = r.db.NewInsert().
		Model(dbUser).
		Exec(ctx)

	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user aggregate by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return mapDBUserToModel(dbUser)
}

// GetByEmail retrieves a user aggregate by email. Emails are stored
// lowercase, so lowering the input makes the lookup case-insensitive.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("email = ?", strings.ToLower(email)).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return mapDBUserToModel(dbUser)
}

// Save writes the whole aggregate back in a single UPDATE and refreshes
// updatedAt. Concurrent saves of the same user are last-write-wins.
func (r *Repository) Save(ctx context.Context, u *User) error {
	u.UpdatedAt = time.Now()

	dbUser, err := mapModelToDBUser(u)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	result, err := r.db.NewUpdate().
		Model(dbUser).
		Column("name", "email", "password_hash", "settings", "tasks", "updated_at").
		WherePK().
		Exec(ctx)

	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to save user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes the user row; the embedded tasks go with it
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.NewDelete().
		Model((*database.User)(nil)).
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func isDuplicateKeyError(err error) bool {
	return strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}

// mapModelToDBUser converts the domain aggregate to the storage model
func mapModelToDBUser(u *User) (*database.User, error) {
	settings, err := json.Marshal(u.Settings)
	if err != nil {
		return nil, err
	}

	tasks := u.Tasks
	if tasks == nil {
		tasks = []Task{}
	}
	tasksJSON, err := json.Marshal(tasks)
	if err != nil {
		return nil, err
	}

	return &database.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Settings:     settings,
		Tasks:        tasksJSON,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}, nil
}

// mapDBUserToModel converts the storage model to the domain aggregate
func mapDBUserToModel(dbu *database.User) (*User, error) {
	u := &User{
		ID:           dbu.ID,
		Name:         dbu.Name,
		Email:        dbu.Email,
		PasswordHash: dbu.PasswordHash,
		Tasks:        []Task{},
		CreatedAt:    dbu.CreatedAt,
		UpdatedAt:    dbu.UpdatedAt,
	}

	if len(dbu.Settings) > 0 {
		if err := json.Unmarshal(dbu.Settings, &u.Settings); err != nil {
			return nil, fmt.Errorf("failed to decode user settings: %w", err)
		}
	}
	if len(dbu.Tasks) > 0 {
		if err := json.Unmarshal(dbu.Tasks, &u.Tasks); err != nil {
			return nil, fmt.Errorf("failed to decode user tasks: %w", err)
		}
	}

	return u, nil
}
