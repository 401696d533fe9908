package database_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netly-dev/gobid/internal/database"
	"github.com/netly-dev/gobid/internal/domain"
	"github.com/netly-dev/gobid/internal/logger"
)

// newTestRepository opens an in-memory database with the schema
// applied. The schema is portable between PostgreSQL and SQLite.
func newTestRepository(t *testing.T) *database.ProjectRepository {
	t.Helper()

	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(context.Background(), db))

	return database.NewProjectRepository(db, logger.NewNoOp())
}

func draft(title, link string) domain.ProjectDraft {
	return domain.ProjectDraft{
		Marketplace: domain.MarketplaceFreelancehunt,
		Title:       title,
		Link:        link,
		Price:       5000,
		Currency:    "UAH",
	}
}

func TestProjectRepository_CreateMany(t *testing.T) {
	t.Parallel()

	t.Run("creates drafts and reports them", func(t *testing.T) {
		t.Parallel()

		repo := newTestRepository(t)
		ctx := context.Background()

		created, err := repo.CreateMany(ctx, []domain.ProjectDraft{
			draft("First", "https://freelancehunt.com/project/first/1.html"),
			draft("Second", "https://freelancehunt.com/project/second/2.html"),
		})
		require.NoError(t, err)
		require.Len(t, created, 2)
		assert.NotEmpty(t, created[0].ID)
		assert.NotEqual(t, created[0].ID, created[1].ID)
		assert.True(t, created[0].IsActive())
	})

	t.Run("a batch keeps insertion order despite a shared timestamp", func(t *testing.T) {
		t.Parallel()

		repo := newTestRepository(t)
		ctx := context.Background()

		drafts := make([]domain.ProjectDraft, 0, 8)
		for i := 0; i < 8; i++ {
			drafts = append(drafts, draft(
				fmt.Sprintf("Project %d", i),
				fmt.Sprintf("https://freelancehunt.com/project/batch/%d.html", i),
			))
		}

		created, err := repo.CreateMany(ctx, drafts)
		require.NoError(t, err)
		require.Len(t, created, 8)

		// Rows of one batch share created_at; ordering must still be
		// unambiguous.
		for _, project := range created[1:] {
			assert.True(t, project.CreatedAt.Equal(created[0].CreatedAt))
		}

		active, err := repo.GetActiveProjects(ctx)
		require.NoError(t, err)
		require.Len(t, active, 8)
		for i, project := range active {
			assert.Equal(t, drafts[i].Link, project.Link)
		}
	})

	t.Run("a stored link is silently skipped", func(t *testing.T) {
		t.Parallel()

		repo := newTestRepository(t)
		ctx := context.Background()

		first, err := repo.CreateMany(ctx, []domain.ProjectDraft{
			draft("Known", "https://freelancehunt.com/project/known/1.html"),
		})
		require.NoError(t, err)
		require.Len(t, first, 1)

		second, err := repo.CreateMany(ctx, []domain.ProjectDraft{
			draft("Known again", "https://freelancehunt.com/project/known/1.html"),
			draft("Fresh", "https://freelancehunt.com/project/fresh/2.html"),
		})
		require.NoError(t, err)
		require.Len(t, second, 1)
		assert.Equal(t, "Fresh", second[0].Title)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		// The original row survives the duplicate insert untouched.
		known, err := repo.GetByLink(ctx, "https://freelancehunt.com/project/known/1.html")
		require.NoError(t, err)
		assert.Equal(t, "Known", known.Title)
		assert.Equal(t, first[0].ID, known.ID)
	})

	t.Run("reinserting an unchanged batch stores nothing", func(t *testing.T) {
		t.Parallel()

		repo := newTestRepository(t)
		ctx := context.Background()

		batch := []domain.ProjectDraft{
			draft("One", "https://freelancehunt.com/project/one/1.html"),
			draft("Two", "https://freelancehunt.com/project/two/2.html"),
		}
		_, err := repo.CreateMany(ctx, batch)
		require.NoError(t, err)

		again, err := repo.CreateMany(ctx, batch)
		require.NoError(t, err)
		assert.Empty(t, again)
	})
}

func TestProjectRepository_ExistsByLink(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.CreateMany(ctx, []domain.ProjectDraft{
		draft("Stored", "https://freelancehunt.com/project/stored/1.html"),
	})
	require.NoError(t, err)

	exists, err := repo.ExistsByLink(ctx, "https://freelancehunt.com/project/stored/1.html")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByLink(ctx, "https://freelancehunt.com/project/other/2.html")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestProjectRepository_GetActiveProjects(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	ctx := context.Background()

	created, err := repo.CreateMany(ctx, []domain.ProjectDraft{
		draft("Active", "https://freelancehunt.com/project/active/1.html"),
		draft("Placed", "https://freelancehunt.com/project/placed/2.html"),
		draft("Skipped", "https://freelancehunt.com/project/skipped/3.html"),
	})
	require.NoError(t, err)
	require.Len(t, created, 3)

	placed := true
	require.NoError(t, repo.Update(ctx, created[1].ID, domain.ProjectUpdate{IsBidPlaced: &placed}))
	skipped := true
	require.NoError(t, repo.Update(ctx, created[2].ID, domain.ProjectUpdate{IsBidSkipped: &skipped}))

	active, err := repo.GetActiveProjects(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Active", active[0].Title)

	// A resolved project never becomes work again.
	for _, project := range active {
		assert.True(t, project.IsActive())
	}
}

func TestProjectRepository_Update(t *testing.T) {
	t.Parallel()

	t.Run("partial update touches only the given fields", func(t *testing.T) {
		t.Parallel()

		repo := newTestRepository(t)
		ctx := context.Background()

		created, err := repo.CreateMany(ctx, []domain.ProjectDraft{
			draft("Project", "https://freelancehunt.com/project/p/1.html"),
		})
		require.NoError(t, err)

		message := "Вітаю! Готові взятися за проєкт."
		placed := true
		err = repo.Update(ctx, created[0].ID, domain.ProjectUpdate{
			BidMessage:  &message,
			IsBidPlaced: &placed,
		})
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, created[0].ID)
		require.NoError(t, err)
		assert.True(t, got.IsBidPlaced)
		assert.False(t, got.IsBidSkipped)
		require.NotNil(t, got.BidMessage)
		assert.Equal(t, message, *got.BidMessage)
		assert.Equal(t, "Project", got.Title)
		assert.True(t, got.UpdatedAt.After(got.CreatedAt) || got.UpdatedAt.Equal(got.CreatedAt))
	})

	t.Run("placed and skipped together are rejected", func(t *testing.T) {
		t.Parallel()

		repo := newTestRepository(t)
		ctx := context.Background()

		created, err := repo.CreateMany(ctx, []domain.ProjectDraft{
			draft("Project", "https://freelancehunt.com/project/p/1.html"),
		})
		require.NoError(t, err)

		both := true
		err = repo.Update(ctx, created[0].ID, domain.ProjectUpdate{
			IsBidPlaced:  &both,
			IsBidSkipped: &both,
		})
		require.ErrorIs(t, err, database.ErrConflictingUpdate)

		got, err := repo.GetByID(ctx, created[0].ID)
		require.NoError(t, err)
		assert.True(t, got.IsActive())
	})

	t.Run("unknown id reports not found", func(t *testing.T) {
		t.Parallel()

		repo := newTestRepository(t)
		placed := true
		err := repo.Update(context.Background(), "missing-id", domain.ProjectUpdate{IsBidPlaced: &placed})
		require.ErrorIs(t, err, database.ErrProjectNotFound)
	})

	t.Run("empty update is a no-op", func(t *testing.T) {
		t.Parallel()

		repo := newTestRepository(t)
		err := repo.Update(context.Background(), "missing-id", domain.ProjectUpdate{})
		require.NoError(t, err)
	})
}

func TestProjectRepository_Delete(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	ctx := context.Background()

	created, err := repo.CreateMany(ctx, []domain.ProjectDraft{
		draft("Doomed", "https://freelancehunt.com/project/doomed/1.html"),
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created[0].ID))

	_, err = repo.GetByID(ctx, created[0].ID)
	require.ErrorIs(t, err, database.ErrProjectNotFound)

	err = repo.Delete(ctx, created[0].ID)
	require.ErrorIs(t, err, database.ErrProjectNotFound)
}
