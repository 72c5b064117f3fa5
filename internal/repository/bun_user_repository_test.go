package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studydeck/deckapi/internal/db/models"
)

func TestBunUserRepository_CreateAndLookup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunUserRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "alice", PasswordHash: "x", Role: models.RoleUser}
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
}

func TestBunUserRepository_MissingIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunUserRepository(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBunUserRepository_UsernameUnique(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Username: "alice", PasswordHash: "x", Role: models.RoleUser}))
	err := repo.Create(ctx, &models.User{Username: "alice", PasswordHash: "y", Role: models.RoleUser})
	assert.Error(t, err, "the unique constraint must reject duplicate usernames")
}

func TestBunUserRepository_CreateRejectsUnknownRole(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunUserRepository(db)

	err := repo.Create(context.Background(), &models.User{Username: "bob", PasswordHash: "x", Role: "SUPERUSER"})
	assert.Error(t, err)
}
