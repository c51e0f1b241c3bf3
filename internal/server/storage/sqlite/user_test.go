package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timetrac/timetrac/internal/models"
	"github.com/timetrac/timetrac/internal/server/storage"
)

func TestUserStorage_CreateUser(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        "alice@example.com",
		PasswordHash: "bcrypt-hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.CreateUser(ctx, user)
	require.NoError(t, err)

	t.Run("duplicate email is rejected", func(t *testing.T) {
		dup := &models.User{
			ID:           uuid.New().String(),
			Email:        "alice@example.com",
			PasswordHash: "other-hash",
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		err := s.CreateUser(ctx, dup)
		assert.ErrorIs(t, err, storage.ErrUserAlreadyExists)
	})
}

func TestUserStorage_GetUserByEmail(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        "bob@example.com",
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.CreateUser(ctx, user))

	tests := []struct {
		name      string
		email     string
		wantError error
	}{
		{
			name:      "existing user",
			email:     "bob@example.com",
			wantError: nil,
		},
		{
			name:      "unknown email",
			email:     "nobody@example.com",
			wantError: storage.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.GetUserByEmail(ctx, tt.email)
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user.ID, got.ID)
			assert.Equal(t, user.Email, got.Email)
			assert.Equal(t, user.PasswordHash, got.PasswordHash)
		})
	}
}

func TestUserStorage_GetUserByID(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s)

	got, err := s.GetUserByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, got.ID)

	_, err = s.GetUserByID(ctx, uuid.New().String())
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}
