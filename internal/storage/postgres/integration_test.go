package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgiraldo/mini-user-api/internal/models"
	"github.com/rgiraldo/mini-user-api/internal/storage"
	"github.com/rgiraldo/mini-user-api/internal/storage/postgres"
)

// TestStoreIntegration exercises the store against a live Postgres database.
func TestStoreIntegration(t *testing.T) {
	if os.Getenv("RUN_DB_INTEGRATION") != "true" {
		t.Skip("set RUN_DB_INTEGRATION=true to run this integration test")
	}

	_ = godotenv.Load("../../../.env")
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	store, err := postgres.NewStore(ctx, postgres.Config{DatabaseURL: dbURL})
	require.NoError(t, err)
	defer store.Close()

	email := fmt.Sprintf("itest_%d@example.com", time.Now().UnixNano())
	age := 30
	created, err := store.CreateUser(ctx, models.NewUser{
		Name:  "Integration Test",
		Email: email,
		Age:   &age,
	})
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	defer store.DeleteUser(ctx, created.ID)

	// Duplicate insert hits the unique constraint.
	_, err = store.CreateUser(ctx, models.NewUser{Name: "Other", Email: email})
	assert.ErrorIs(t, err, storage.ErrDuplicateEmail)

	fetched, err := store.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, fetched.Email)
	require.NotNil(t, fetched.Age)
	assert.Equal(t, 30, *fetched.Age)

	byEmail, err := store.FindByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	newAge := 31
	updated, err := store.UpdateUser(ctx, created.ID, models.UserUpdate{Age: &newAge})
	require.NoError(t, err)
	require.NotNil(t, updated.Age)
	assert.Equal(t, 31, *updated.Age)
	assert.Equal(t, created.Name, updated.Name)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))

	users, err := store.FindAll(ctx, storage.ListParams{Page: 1, Limit: 10, Search: email})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, created.ID, users[0].ID)

	total, err := store.Count(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	deleted, err := store.DeleteUser(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.DeleteUser(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = store.FindByID(ctx, created.ID)
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}
