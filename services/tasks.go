package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	apperror "github.com/Yulian302/taskflow-gateway/errors"
	"github.com/Yulian302/taskflow-gateway/store"
	"github.com/Yulian302/taskflow-gateway/tasks/types"
	"github.com/google/uuid"
)

const maxTitleLength = 255

type TaskService interface {
	List(ctx context.Context, owner string) ([]*types.Task, error)
	Create(ctx context.Context, owner string, req types.CreateTaskRequest) (*types.Task, error)
	Get(ctx context.Context, owner, id string) (*types.Task, error)
	Replace(ctx context.Context, owner, id string, req types.UpdateTaskRequest) (*types.Task, error)
	Update(ctx context.Context, owner, id string, req types.UpdateTaskRequest) (*types.Task, error)
	Delete(ctx context.Context, owner, id string) error
}

type TaskServiceImpl struct {
	taskStore store.TaskStore
	now       func() time.Time
}

func NewTaskServiceImpl(taskStore store.TaskStore) *TaskServiceImpl {
	return &TaskServiceImpl{
		taskStore: taskStore,
		now:       time.Now,
	}
}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if n := utf8.RuneCountInString(title); n == 0 || n > maxTitleLength {
		return "", apperror.ErrTaskTitleInvalid
	}
	return title, nil
}

func (s *TaskServiceImpl) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *TaskServiceImpl) List(ctx context.Context, owner string) ([]*types.Task, error) {
	tasks, err := s.taskStore.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []*types.Task{}
	}
	return tasks, nil
}

func (s *TaskServiceImpl) Create(ctx context.Context, owner string, req types.CreateTaskRequest) (*types.Task, error) {
	title, err := normalizeTitle(req.Title)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	task := types.Task{
		ID:         uuid.NewString(),
		OwnerEmail: owner,
		Title:      title,
		Completed:  req.Completed,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.taskStore.Create(ctx, task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskServiceImpl) Get(ctx context.Context, owner, id string) (*types.Task, error) {
	return s.taskStore.Get(ctx, owner, id)
}

// Replace overwrites title and completed.
func (s *TaskServiceImpl) Replace(ctx context.Context, owner, id string, req types.UpdateTaskRequest) (*types.Task, error) {
	if req.Title == nil {
		return nil, apperror.ErrTaskTitleInvalid
	}
	completed := false
	if req.Completed != nil {
		completed = *req.Completed
	}
	return s.Update(ctx, owner, id, types.UpdateTaskRequest{Title: req.Title, Completed: &completed})
}

// Update applies the non-nil fields of req.
func (s *TaskServiceImpl) Update(ctx context.Context, owner, id string, req types.UpdateTaskRequest) (*types.Task, error) {
	var title string
	if req.Title != nil {
		var err error
		if title, err = normalizeTitle(*req.Title); err != nil {
			return nil, err
		}
	}

	task, err := s.taskStore.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = title
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}
	task.UpdatedAt = s.timestamp()

	if err := s.taskStore.Update(ctx, *task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskServiceImpl) Delete(ctx context.Context, owner, id string) error {
	return s.taskStore.Delete(ctx, owner, id)
}
