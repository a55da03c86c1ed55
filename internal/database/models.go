package database

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the storage model for the user aggregate. The embedded task
// list and the settings object are stored as jsonb so the whole
// aggregate is one row and every save is one atomic UPDATE.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID       `bun:"id,pk,type:uuid"`
	Name         string          `bun:"name,notnull"`
	Email        string          `bun:"email,notnull,unique"`
	PasswordHash string          `bun:"password_hash,notnull"`
	Settings     json.RawMessage `bun:"settings,type:jsonb,notnull,default:'{}'"`
	Tasks        json.RawMessage `bun:"tasks,type:jsonb,notnull,default:'[]'"`
	CreatedAt    time.Time       `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time       `bun:"updated_at,notnull,default:current_timestamp"`
}
