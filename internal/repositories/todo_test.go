package repositories_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-todo-metrics/internal/repositories"
	"go-todo-metrics/testutil"
)

func setupRepo(t *testing.T) *repositories.TodoRepository {
	t.Helper()
	fake := testutil.NewFakeDB(t)
	db, err := fake.Acquire()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repositories.NewTodoRepository(db)
}

func TestCreate_ReadsBackServerAssignedValues(t *testing.T) {
	repo := setupRepo(t)

	created, err := repo.Create("Buy milk")
	require.NoError(t, err)

	assert.Equal(t, 1, created.ID)
	assert.Equal(t, "Buy milk", created.Title)
	// created_at は挿入後に読み直したデータベース側の値
	require.False(t, created.CreatedAt.IsZero())
	assert.WithinDuration(t, time.Now(), created.CreatedAt, 5*time.Second)
}

func TestCreate_IDsAreMonotonic(t *testing.T) {
	repo := setupRepo(t)

	first, err := repo.Create("first")
	require.NoError(t, err)
	second, err := repo.Create("second")
	require.NoError(t, err)

	assert.Greater(t, second.ID, first.ID)
}

func TestFindAll_Empty(t *testing.T) {
	repo := setupRepo(t)

	todos, err := repo.FindAll()
	require.NoError(t, err)
	// nil ではなく空スライス (JSONで [] になる)
	require.NotNil(t, todos)
	assert.Len(t, todos, 0)
}

func TestFindAll_RoundTrip(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.Create("Buy milk")
	require.NoError(t, err)
	_, err = repo.Create("Walk the dog")
	require.NoError(t, err)

	todos, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, todos, 2)

	titles := []string{todos[0].Title, todos[1].Title}
	assert.Contains(t, titles, "Buy milk")
	assert.Contains(t, titles, "Walk the dog")
	for _, todo := range todos {
		assert.NotZero(t, todo.ID)
		assert.False(t, todo.CreatedAt.IsZero())
	}
}

func TestFindByID_NotFound(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.FindByID(42)
	assert.ErrorIs(t, err, repositories.ErrTodoNotFound)
}

func TestCount(t *testing.T) {
	repo := setupRepo(t)

	n, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	for i := 0; i < 3; i++ {
		_, err := repo.Create("item")
		require.NoError(t, err)
	}

	n, err = repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
