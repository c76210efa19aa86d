package gormdb_test

import (
	"context"
	"testing"
	"time"

	"github.com/lauzhack/pictorial/internal/domain"
	"github.com/lauzhack/pictorial/internal/repository/gormdb"
	"github.com/lauzhack/pictorial/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository_SQLite(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	runUserRepositoryTests(t, testDB.DB)
}

// runUserRepositoryTests exercises the user repository against any dialect.
func runUserRepositoryTests(t *testing.T, db *gorm.DB) {
	repo := gormdb.NewUserRepository(db, 5*time.Second)
	ctx := context.Background()

	t.Run("create assigns increasing ids", func(t *testing.T) {
		first := &domain.User{Email: "first@example.com", PasswordHash: "h1", CreatedAt: time.Now()}
		second := &domain.User{Email: "second@example.com", PasswordHash: "h2", CreatedAt: time.Now()}

		require.NoError(t, repo.Create(ctx, first))
		require.NoError(t, repo.Create(ctx, second))

		assert.Positive(t, first.ID)
		assert.Greater(t, second.ID, first.ID)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		err := repo.Create(ctx, &domain.User{Email: "first@example.com", PasswordHash: "h3", CreatedAt: time.Now()})
		assert.ErrorIs(t, err, domain.ErrEmailExists)
	})

	t.Run("get by email", func(t *testing.T) {
		tests := []struct {
			name    string
			email   string
			wantErr error
		}{
			{name: "existing user", email: "second@example.com"},
			{name: "unknown email", email: "nobody@example.com", wantErr: domain.ErrUserNotFound},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				user, err := repo.GetByEmail(ctx, tt.email)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
					assert.Nil(t, user)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, tt.email, user.Email)
				assert.Equal(t, "h2", user.PasswordHash)
			})
		}
	})

	t.Run("get by id", func(t *testing.T) {
		created := &domain.User{Email: "byid@example.com", PasswordHash: "h", CreatedAt: time.Now()}
		require.NoError(t, repo.Create(ctx, created))

		tests := []struct {
			name    string
			id      int64
			wantErr error
		}{
			{name: "existing user", id: created.ID},
			{name: "unknown id", id: 424242, wantErr: domain.ErrUserNotFound},
			{name: "zero id", id: 0, wantErr: domain.ErrUserNotFound},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				user, err := repo.GetByID(ctx, tt.id)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, created.ID, user.ID)
				assert.Equal(t, "byid@example.com", user.Email)
			})
		}
	})

	t.Run("cancelled context is a storage error", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := repo.GetByEmail(cancelled, "second@example.com")
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrUserNotFound)
	})
}
