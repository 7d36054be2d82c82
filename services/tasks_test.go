package services

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperror "github.com/Yulian302/taskflow-gateway/errors"
	"github.com/Yulian302/taskflow-gateway/store"
	"github.com/Yulian302/taskflow-gateway/tasks/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTaskFixture(t *testing.T) *TaskServiceImpl {
	t.Helper()

	db, err := store.OpenSQLite(filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Shutdown(context.Background()) })

	svc := NewTaskServiceImpl(db.Tasks())
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc
}

func ptr[T any](v T) *T {
	return &v
}

func TestTaskService_CreateAndList(t *testing.T) {
	svc := newTaskFixture(t)
	ctx := context.Background()

	empty, err := svc.List(ctx, "a@x.com")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	first, err := svc.Create(ctx, "a@x.com", types.CreateTaskRequest{Title: "  first  "})
	require.NoError(t, err)
	assert.Equal(t, "first", first.Title)
	assert.False(t, first.Completed)
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)

	_, err = svc.Create(ctx, "a@x.com", types.CreateTaskRequest{Title: "second", Completed: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "b@x.com", types.CreateTaskRequest{Title: "other"})
	require.NoError(t, err)

	list, err := svc.List(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Title)
	assert.True(t, list[0].Completed)
	assert.Equal(t, "first", list[1].Title)
}

func TestTaskService_TitleValidation(t *testing.T) {
	svc := newTaskFixture(t)
	ctx := context.Background()

	for _, title := range []string{"", "   ", strings.Repeat("x", 256)} {
		_, err := svc.Create(ctx, "a@x.com", types.CreateTaskRequest{Title: title})
		assert.ErrorIs(t, err, apperror.ErrTaskTitleInvalid)
	}

	task, err := svc.Create(ctx, "a@x.com", types.CreateTaskRequest{Title: strings.Repeat("é", 255)})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "a@x.com", task.ID, types.UpdateTaskRequest{Title: ptr("")})
	assert.ErrorIs(t, err, apperror.ErrTaskTitleInvalid)

	_, err = svc.Replace(ctx, "a@x.com", task.ID, types.UpdateTaskRequest{Completed: ptr(true)})
	assert.ErrorIs(t, err, apperror.ErrTaskTitleInvalid)
}

func TestTaskService_PatchUpdatesOnlyGivenFields(t *testing.T) {
	svc := newTaskFixture(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, "a@x.com", types.CreateTaskRequest{Title: "write tests"})
	require.NoError(t, err)

	toggled, err := svc.Update(ctx, "a@x.com", task.ID, types.UpdateTaskRequest{Completed: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, "write tests", toggled.Title)
	assert.True(t, toggled.Completed)
	assert.True(t, toggled.UpdatedAt.After(task.UpdatedAt))
	assert.Equal(t, task.CreatedAt, toggled.CreatedAt)

	renamed, err := svc.Update(ctx, "a@x.com", task.ID, types.UpdateTaskRequest{Title: ptr("write more tests")})
	require.NoError(t, err)
	assert.True(t, renamed.Completed)

	got, err := svc.Get(ctx, "a@x.com", task.ID)
	require.NoError(t, err)
	assert.Equal(t, renamed, got)
}

func TestTaskService_ReplaceResetsCompleted(t *testing.T) {
	svc := newTaskFixture(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, "a@x.com", types.CreateTaskRequest{Title: "t", Completed: true})
	require.NoError(t, err)

	replaced, err := svc.Replace(ctx, "a@x.com", task.ID, types.UpdateTaskRequest{Title: ptr("new")})
	require.NoError(t, err)
	assert.Equal(t, "new", replaced.Title)
	assert.False(t, replaced.Completed)
}

func TestTaskService_OwnerScoping(t *testing.T) {
	svc := newTaskFixture(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, "a@x.com", types.CreateTaskRequest{Title: "private"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, "b@x.com", task.ID)
	assert.ErrorIs(t, err, apperror.ErrTaskNotFound)

	_, err = svc.Update(ctx, "b@x.com", task.ID, types.UpdateTaskRequest{Completed: ptr(true)})
	assert.ErrorIs(t, err, apperror.ErrTaskNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, "b@x.com", task.ID), apperror.ErrTaskNotFound)

	got, err := svc.Get(ctx, "a@x.com", task.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)

	require.NoError(t, svc.Delete(ctx, "a@x.com", task.ID))
	_, err = svc.Get(ctx, "a@x.com", task.ID)
	assert.ErrorIs(t, err, apperror.ErrTaskNotFound)
}
