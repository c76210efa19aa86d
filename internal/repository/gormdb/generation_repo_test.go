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

func TestGenerationRepository_SQLite(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	runGenerationRepositoryTests(t, testDB.DB)
}

// runGenerationRepositoryTests exercises the generation repository against
// any dialect.
func runGenerationRepositoryTests(t *testing.T, db *gorm.DB) {
	repos := gormdb.NewRepositories(db, 5*time.Second)
	ctx := context.Background()

	alice := &domain.User{Email: "alice@example.com", PasswordHash: "h", CreatedAt: time.Now()}
	bob := &domain.User{Email: "bob@example.com", PasswordHash: "h", CreatedAt: time.Now()}
	require.NoError(t, repos.User.Create(ctx, alice))
	require.NoError(t, repos.User.Create(ctx, bob))

	t.Run("empty library", func(t *testing.T) {
		generations, err := repos.Generation.ListByUser(ctx, alice.ID)
		require.NoError(t, err)
		assert.Empty(t, generations)
	})

	create := func(t *testing.T, userID int64, prompt string) *domain.Generation {
		t.Helper()
		g := &domain.Generation{UserID: userID, ImageID: prompt + ".png", Prompt: prompt, CreatedAt: time.Now()}
		require.NoError(t, repos.Generation.Create(ctx, g))
		require.Positive(t, g.ID)
		return g
	}

	t.Run("list is newest first and per user", func(t *testing.T) {
		first := create(t, alice.ID, "a red fox")
		create(t, bob.ID, "a blue whale")
		second := create(t, alice.ID, "a green owl")

		generations, err := repos.Generation.ListByUser(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, generations, 2)

		assert.Equal(t, second.ID, generations[0].ID)
		assert.Equal(t, first.ID, generations[1].ID)
		assert.Equal(t, "a green owl", generations[0].Prompt)
		assert.Equal(t, "a green owl.png", generations[0].ImageID)
		for _, g := range generations {
			assert.Equal(t, alice.ID, g.UserID)
		}
	})

	t.Run("unknown user has no generations", func(t *testing.T) {
		generations, err := repos.Generation.ListByUser(ctx, 999999)
		require.NoError(t, err)
		assert.Empty(t, generations)
	})
}
