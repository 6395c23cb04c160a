package auth_test

import (
	"context"
	"testing"
	"time"

	"secretreels/internal/auth"
	"secretreels/internal/database/databasetest"
	"secretreels/internal/models"
	"secretreels/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGuest(t *testing.T) {
	store := databasetest.NewFakeStore()
	service := auth.NewService(store, "", "", "")

	guest, err := service.CreateGuest(context.Background())
	require.NoError(t, err)
	assert.True(t, guest.IsGuest)
	assert.NotEqual(t, uuid.Nil, guest.ID)
	assert.NotEmpty(t, guest.DisplayName)

	// The guest is persisted and can come back.
	stored, err := store.GetUser(context.Background(), guest.ID)
	require.NoError(t, err)
	assert.Equal(t, guest.DisplayName, stored.DisplayName)
}

func TestModeratorLogin(t *testing.T) {
	store := databasetest.NewFakeStore()
	service := auth.NewService(store, "", "", "")
	ctx := context.Background()

	hashed, err := auth.HashPassword("swordfish")
	require.NoError(t, err)
	moderator := &models.User{
		ID:             uuid.New(),
		DisplayName:    "mod",
		Email:          "mod@example.com",
		IsModerator:    true,
		HashedPassword: hashed,
		CreatedAt:      time.Now(),
	}
	require.NoError(t, store.SaveUser(ctx, moderator))

	user, err := service.ModeratorLogin(ctx, "mod@example.com", "swordfish")
	require.NoError(t, err)
	assert.Equal(t, moderator.ID, user.ID)

	_, err = service.ModeratorLogin(ctx, "mod@example.com", "wrong")
	assert.True(t, utils.IsErrorCode(err, utils.ErrUnauthenticated))

	_, err = service.ModeratorLogin(ctx, "nobody@example.com", "swordfish")
	assert.True(t, utils.IsErrorCode(err, utils.ErrUnauthenticated))
}

func TestModeratorLoginRejectsNonModerator(t *testing.T) {
	store := databasetest.NewFakeStore()
	service := auth.NewService(store, "", "", "")
	ctx := context.Background()

	hashed, err := auth.HashPassword("swordfish")
	require.NoError(t, err)
	require.NoError(t, store.SaveUser(ctx, &models.User{
		ID:             uuid.New(),
		Email:          "user@example.com",
		HashedPassword: hashed,
		CreatedAt:      time.Now(),
	}))

	_, err = service.ModeratorLogin(ctx, "user@example.com", "swordfish")
	assert.True(t, utils.IsErrorCode(err, utils.ErrUnauthenticated))
}

func TestGenerateStateToken(t *testing.T) {
	a, err := auth.GenerateStateToken()
	require.NoError(t, err)
	b, err := auth.GenerateStateToken()
	require.NoError(t, err)
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
