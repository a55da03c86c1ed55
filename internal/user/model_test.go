package user

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_FindTask(t *testing.T) {
	first := Task{ID: uuid.New(), Title: "first"}
	second := Task{ID: uuid.New(), Title: "second"}
	u := &User{Tasks: []Task{first, second}}

	found := u.FindTask(second.ID)
	require.NotNil(t, found)
	assert.Equal(t, "second", found.Title)

	// the pointer aliases the slice element, so edits stick
	found.Title = "renamed"
	assert.Equal(t, "renamed", u.Tasks[1].Title)

	assert.Nil(t, u.FindTask(uuid.New()))
}

func TestUser_RemoveTask(t *testing.T) {
	first := Task{ID: uuid.New(), Title: "first"}
	second := Task{ID: uuid.New(), Title: "second"}
	third := Task{ID: uuid.New(), Title: "third"}
	u := &User{Tasks: []Task{first, second, third}}

	assert.True(t, u.RemoveTask(second.ID))
	require.Len(t, u.Tasks, 2)
	assert.Equal(t, "first", u.Tasks[0].Title)
	assert.Equal(t, "third", u.Tasks[1].Title)

	assert.False(t, u.RemoveTask(second.ID))
}

func TestUser_JSONHidesPasswordHash(t *testing.T) {
	u := &User{
		ID:           uuid.New(),
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "super-secret-hash",
		Settings:     DefaultSettings(),
	}

	data, err := json.Marshal(u)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "super-secret-hash")
	assert.Contains(t, string(data), `"notificationEmail":"daily"`)
	assert.Contains(t, string(data), `"createdAt"`)
}
