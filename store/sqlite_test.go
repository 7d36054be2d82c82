package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	authtypes "github.com/Yulian302/taskflow-gateway/auth/types"
	apperror "github.com/Yulian302/taskflow-gateway/errors"
	"github.com/Yulian302/taskflow-gateway/tasks/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := OpenSQLite(filepath.Join(t.TempDir(), "taskflow.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Shutdown(context.Background()) })
	return s
}

func newUser(email string) authtypes.User {
	return authtypes.User{
		ID:        uuid.NewString(),
		Email:     email,
		Username:  email,
		FirstName: "Ada",
		LastName:  "Lovelace",
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	_, err := OpenSQLite("  ")
	assert.Error(t, err)
}

func TestSQLiteUsers_CreateAndGet(t *testing.T) {
	s := openTestSQLite(t)
	users := s.Users()
	ctx := context.Background()

	_, err := users.GetByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)

	u := newUser("a@x.com")
	require.NoError(t, users.Create(ctx, u))

	got, err := users.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, u, *got)

	dup := newUser("a@x.com")
	dup.FirstName = "Other"
	assert.ErrorIs(t, users.Create(ctx, dup), apperror.ErrUserAlreadyExists)

	got, err = users.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.FirstName)
}

func TestSQLiteUsers_GetOrCreate(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	first, created, err := GetOrCreate(ctx, s.Users(), newUser("a@x.com"))
	require.NoError(t, err)
	assert.True(t, created)

	again := newUser("a@x.com")
	again.FirstName = "Changed"
	second, created, err := GetOrCreate(ctx, s.Users(), again)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ada", second.FirstName)
}

func TestSQLiteUsers_GetOrCreateConcurrent(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	const n = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ids     = map[string]struct{}{}
		created int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, isNew, err := GetOrCreate(ctx, s.Users(), newUser("race@x.com"))
			assert.NoError(t, err)
			if err != nil {
				return
			}
			mu.Lock()
			ids[u.ID] = struct{}{}
			if isNew {
				created++
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, ids, 1)
	assert.Equal(t, 1, created)
}

func newTask(owner, title string, created time.Time) types.Task {
	return types.Task{
		ID:         uuid.NewString(),
		OwnerEmail: owner,
		Title:      title,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
}

func TestSQLiteTasks_CRUD(t *testing.T) {
	s := openTestSQLite(t)
	tasks := s.Tasks()
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	older := newTask("a@x.com", "older", base)
	newer := newTask("a@x.com", "newer", base.Add(time.Minute))
	foreign := newTask("b@x.com", "foreign", base)
	for _, task := range []types.Task{older, newer, foreign} {
		require.NoError(t, tasks.Create(ctx, task))
	}

	list, err := tasks.List(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].Title)
	assert.Equal(t, "older", list[1].Title)

	empty, err := tasks.List(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	got, err := tasks.Get(ctx, "a@x.com", older.ID)
	require.NoError(t, err)
	assert.Equal(t, older, *got)

	_, err = tasks.Get(ctx, "a@x.com", foreign.ID)
	assert.ErrorIs(t, err, apperror.ErrTaskNotFound)

	older.Title = "renamed"
	older.Completed = true
	older.UpdatedAt = base.Add(time.Hour)
	require.NoError(t, tasks.Update(ctx, older))

	got, err = tasks.Get(ctx, "a@x.com", older.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.True(t, got.Completed)
	assert.Equal(t, base.Add(time.Hour), got.UpdatedAt)
	assert.Equal(t, base, got.CreatedAt)

	hijack := foreign
	hijack.OwnerEmail = "a@x.com"
	hijack.Title = "stolen"
	assert.ErrorIs(t, tasks.Update(ctx, hijack), apperror.ErrTaskNotFound)
	assert.ErrorIs(t, tasks.Delete(ctx, "a@x.com", foreign.ID), apperror.ErrTaskNotFound)

	require.NoError(t, tasks.Delete(ctx, "a@x.com", older.ID))
	assert.ErrorIs(t, tasks.Delete(ctx, "a@x.com", older.ID), apperror.ErrTaskNotFound)

	stillThere, err := tasks.Get(ctx, "b@x.com", foreign.ID)
	require.NoError(t, err)
	assert.Equal(t, "foreign", stillThere.Title)
}

func TestSQLiteStore_Ready(t *testing.T) {
	s := openTestSQLite(t)

	assert.NoError(t, s.IsReady(context.Background()))
	assert.Equal(t, "Store[sqlite]", s.Name())
	assert.NoError(t, s.Migrate(context.Background()))
}
