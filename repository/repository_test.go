package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"recordbase/datastore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type task struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Priority int    `json:"priority"`
	Done     bool   `json:"done"`
}

func (task) TableName() string { return "tasks" }

type project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (project) TableName() string { return "projects" }

func setupTestDB(t *testing.T) *datastore.DB {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "repository-test-*")
	require.NoError(t, err)

	db, err := datastore.New(filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
		os.RemoveAll(tmpDir)
	})

	return db
}

func TestInstance(t *testing.T) {
	t.Run("Fails before a database handle is set", func(t *testing.T) {
		resetRegistry()

		_, err := Instance[task]()
		assert.ErrorIs(t, err, ErrDatabaseNotSet)
	})

	t.Run("Returns the identical object on every call", func(t *testing.T) {
		resetRegistry()
		Use(setupTestDB(t))

		first, err := Instance[task]()
		require.NoError(t, err)
		second, err := Instance[task]()
		require.NoError(t, err)
		assert.Same(t, first, second)
	})

	t.Run("Distinct model types get distinct repositories", func(t *testing.T) {
		resetRegistry()
		Use(setupTestDB(t))

		tasks, err := Instance[task]()
		require.NoError(t, err)
		projects, err := Instance[project]()
		require.NoError(t, err)

		assert.Equal(t, "tasks", tasks.TableName())
		assert.Equal(t, "projects", projects.TableName())
	})

	t.Run("Last installed handle wins", func(t *testing.T) {
		resetRegistry()

		first := setupTestDB(t)
		second := setupTestDB(t)
		Use(first)
		Use(second)
		assert.Same(t, second, Default())
	})
}

func TestRepositoryWithoutDatabase(t *testing.T) {
	resetRegistry()
	ctx := context.Background()

	repo := New[task](nil)

	_, err := repo.Collection()
	assert.ErrorIs(t, err, ErrDatabaseNotSet)

	_, err = repo.Create(ctx, &task{Name: "x"})
	assert.ErrorIs(t, err, ErrDatabaseNotSet)

	_, err = repo.PrepareCreate(&task{Name: "x"})
	assert.ErrorIs(t, err, ErrDatabaseNotSet)

	_, err = repo.Update(ctx, "id", datastore.Fields{"name": "y"})
	assert.ErrorIs(t, err, ErrDatabaseNotSet)

	assert.ErrorIs(t, repo.Delete(ctx, "id"), ErrDatabaseNotSet)
	assert.ErrorIs(t, repo.Destroy(ctx, "id"), ErrDatabaseNotSet)

	_, err = repo.GetAll(ctx)
	assert.ErrorIs(t, err, ErrDatabaseNotSet)

	assert.Nil(t, repo.GetByID(ctx, "id"))
}

func TestRepositoryCRUD(t *testing.T) {
	resetRegistry()
	ctx := context.Background()
	repo := New[task](setupTestDB(t))

	t.Run("Create populates the identifier and stores the fields", func(t *testing.T) {
		created, err := repo.Create(ctx, &task{Name: "Ali", Priority: 2})
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		assert.Equal(t, "Ali", created.Name)
		assert.Equal(t, 2, created.Priority)

		got := repo.GetByID(ctx, created.ID)
		require.NotNil(t, got)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "Ali", got.Name)
		assert.Equal(t, 2, got.Priority)
	})

	t.Run("GetByID on a missing id returns nil", func(t *testing.T) {
		assert.Nil(t, repo.GetByID(ctx, "no-such-id"))
	})

	t.Run("Update changes only the provided fields", func(t *testing.T) {
		created, err := repo.Create(ctx, &task{Name: "Omar", Priority: 5})
		require.NoError(t, err)

		updated, err := repo.Update(ctx, created.ID, datastore.Fields{"done": true})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.True(t, updated.Done)
		assert.Equal(t, "Omar", updated.Name)
		assert.Equal(t, 5, updated.Priority)
	})

	t.Run("Update on a missing id returns nil and writes nothing", func(t *testing.T) {
		before, err := repo.GetAll(ctx)
		require.NoError(t, err)

		updated, err := repo.Update(ctx, "no-such-id", datastore.Fields{"name": "ghost"})
		require.NoError(t, err)
		assert.Nil(t, updated)

		after, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("Delete hides the record from lookups but Destroy is needed to drop it", func(t *testing.T) {
		created, err := repo.Create(ctx, &task{Name: "soft"})
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, created.ID))
		assert.Nil(t, repo.GetByID(ctx, created.ID))

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		for _, item := range all {
			assert.NotEqual(t, created.ID, item.ID)
		}
	})

	t.Run("Delete and Destroy on missing ids are no-ops", func(t *testing.T) {
		assert.NoError(t, repo.Delete(ctx, "no-such-id"))
		assert.NoError(t, repo.Destroy(ctx, "no-such-id"))
	})

	t.Run("Destroy removes the record entirely", func(t *testing.T) {
		created, err := repo.Create(ctx, &task{Name: "hard"})
		require.NoError(t, err)

		require.NoError(t, repo.Destroy(ctx, created.ID))
		assert.Nil(t, repo.GetByID(ctx, created.ID))

		recs, err := repo.QueryRecords(ctx)
		require.NoError(t, err)
		for _, rec := range recs {
			assert.NotEqual(t, created.ID, rec.ID)
		}
	})
}

func TestRepositoryGetAll(t *testing.T) {
	resetRegistry()
	ctx := context.Background()
	repo := New[task](setupTestDB(t))

	seed := []task{
		{Name: "one", Priority: 1},
		{Name: "two", Priority: 2},
		{Name: "three", Priority: 3},
	}
	for i := range seed {
		_, err := repo.Create(ctx, &seed[i])
		require.NoError(t, err)
	}

	t.Run("No clauses returns every live record in creation order", func(t *testing.T) {
		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "one", all[0].Name)
		assert.Equal(t, "three", all[2].Name)
	})

	t.Run("Clauses restrict the result", func(t *testing.T) {
		filtered, err := repo.GetAll(ctx, datastore.Gte("priority", 2))
		require.NoError(t, err)
		require.Len(t, filtered, 2)
		assert.Equal(t, "two", filtered[0].Name)
		assert.Equal(t, "three", filtered[1].Name)
	})
}

func TestRepositoryPreparedMutations(t *testing.T) {
	resetRegistry()
	ctx := context.Background()
	db := setupTestDB(t)
	repo := New[task](db)

	t.Run("Prepared mutations cause no change until batched", func(t *testing.T) {
		createOp, err := repo.PrepareCreate(&task{Name: "queued"})
		require.NoError(t, err)
		id := createOp.Record().ID
		require.NotEmpty(t, id)

		assert.Nil(t, repo.GetByID(ctx, id))

		require.NoError(t, db.Batch(ctx, createOp))

		got := repo.GetByID(ctx, id)
		require.NotNil(t, got)
		assert.Equal(t, "queued", got.Name)
	})

	t.Run("Update, delete and destroy batch together", func(t *testing.T) {
		renamed, err := repo.Create(ctx, &task{Name: "old"})
		require.NoError(t, err)
		hidden, err := repo.Create(ctx, &task{Name: "hidden"})
		require.NoError(t, err)
		dropped, err := repo.Create(ctx, &task{Name: "dropped"})
		require.NoError(t, err)

		renamedRec, err := repo.FindRecord(ctx, renamed.ID)
		require.NoError(t, err)
		require.NotNil(t, renamedRec)
		hiddenRec, err := repo.FindRecord(ctx, hidden.ID)
		require.NoError(t, err)
		droppedRec, err := repo.FindRecord(ctx, dropped.ID)
		require.NoError(t, err)

		ops := []*datastore.Prepared{
			repo.PrepareUpdate(renamedRec, datastore.Fields{"name": "new"}),
			repo.PrepareDelete(hiddenRec),
			repo.PrepareDestroy(droppedRec),
		}

		// Nothing happened yet
		assert.Equal(t, "old", repo.GetByID(ctx, renamed.ID).Name)
		assert.NotNil(t, repo.GetByID(ctx, hidden.ID))

		require.NoError(t, db.Batch(ctx, ops...))

		assert.Equal(t, "new", repo.GetByID(ctx, renamed.ID).Name)
		assert.Nil(t, repo.GetByID(ctx, hidden.ID))
		assert.Nil(t, repo.GetByID(ctx, dropped.ID))
	})

	t.Run("FindRecord on a missing id returns nil without error", func(t *testing.T) {
		rec, err := repo.FindRecord(ctx, "no-such-id")
		require.NoError(t, err)
		assert.Nil(t, rec)
	})
}

// Mirrors the canonical lifecycle: create, list, rename, soft-delete.
func TestRepositoryLifecycle(t *testing.T) {
	resetRegistry()
	Use(setupTestDB(t))
	ctx := context.Background()

	repo, err := Instance[task]()
	require.NoError(t, err)

	created, err := repo.Create(ctx, &task{Name: "Ali"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, created.ID, all[0].ID)

	updated, err := repo.Update(ctx, created.ID, datastore.Fields{"name": "Omar"})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Omar", updated.Name)

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.Nil(t, repo.GetByID(ctx, created.ID))

	all, err = repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 0)
}
