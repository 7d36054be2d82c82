package tasks

import (
	"context"
	cerror "errors"
	"net/http"

	"github.com/Yulian302/taskflow-gateway/auth"
	"github.com/Yulian302/taskflow-gateway/errors"
	"github.com/Yulian302/taskflow-gateway/logging"
	"github.com/Yulian302/taskflow-gateway/responses"
	"github.com/Yulian302/taskflow-gateway/services"
	taskstypes "github.com/Yulian302/taskflow-gateway/tasks/types"
	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	taskService services.TaskService
}

func NewTaskHandler(taskService services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

func owner(c *gin.Context) (string, bool) {
	email := c.GetString(auth.ContextEmailKey)
	if email == "" {
		errors.UnauthorizedResponse(c, "user not authenticated")
		return "", false
	}
	return email, true
}

func writeTaskError(c *gin.Context, err error) {
	switch {
	case cerror.Is(err, errors.ErrTaskNotFound):
		errors.NotFoundResponse(c, "task not found")
	case cerror.Is(err, errors.ErrTaskTitleInvalid):
		errors.BadRequestResponse(c, err.Error())
	default:
		logging.FromContext(c.Request.Context()).Error("task operation failed", "error", err)
		errors.InternalServerErrorResponse(c, "internal server error")
	}
}

// List godoc
// @Summary      List tasks
// @Description  Returns the caller's tasks, newest first
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   taskstypes.Task
// @Failure      401  {object}  errors.HTTPError
// @Failure      500  {object}  errors.HTTPError
// @Router       /api/tasks/ [get]
func (h *TaskHandler) List(c *gin.Context) {
	email, ok := owner(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.List(c.Request.Context(), email)
	if err != nil {
		writeTaskError(c, err)
		return
	}
	responses.JSONData(c, http.StatusOK, tasks)
}

// Create godoc
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      taskstypes.CreateTaskRequest  true  "New task"
// @Success      201  {object}  taskstypes.Task
// @Failure      400  {object}  errors.HTTPError
// @Failure      401  {object}  errors.HTTPError
// @Router       /api/tasks/ [post]
func (h *TaskHandler) Create(c *gin.Context) {
	email, ok := owner(c)
	if !ok {
		return
	}

	var req taskstypes.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequestResponse(c, "invalid request body")
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), email, req)
	if err != nil {
		writeTaskError(c, err)
		return
	}
	responses.JSONData(c, http.StatusCreated, task)
}

// Get godoc
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  taskstypes.Task
// @Failure      401  {object}  errors.HTTPError
// @Failure      404  {object}  errors.HTTPError
// @Router       /api/tasks/{id}/ [get]
func (h *TaskHandler) Get(c *gin.Context) {
	email, ok := owner(c)
	if !ok {
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), email, c.Param("id"))
	if err != nil {
		writeTaskError(c, err)
		return
	}
	responses.JSONData(c, http.StatusOK, task)
}

// Replace godoc
// @Summary      Replace a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Task ID"
// @Param        request  body      taskstypes.UpdateTaskRequest  true  "Task fields; title is required"
// @Success      200  {object}  taskstypes.Task
// @Failure      400  {object}  errors.HTTPError
// @Failure      401  {object}  errors.HTTPError
// @Failure      404  {object}  errors.HTTPError
// @Router       /api/tasks/{id}/ [put]
func (h *TaskHandler) Replace(c *gin.Context) {
	h.update(c, h.taskService.Replace)
}

// Update godoc
// @Summary      Partially update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Task ID"
// @Param        request  body      taskstypes.UpdateTaskRequest  true  "Fields to change"
// @Success      200  {object}  taskstypes.Task
// @Failure      400  {object}  errors.HTTPError
// @Failure      401  {object}  errors.HTTPError
// @Failure      404  {object}  errors.HTTPError
// @Router       /api/tasks/{id}/ [patch]
func (h *TaskHandler) Update(c *gin.Context) {
	h.update(c, h.taskService.Update)
}

type updateFunc func(ctx context.Context, owner, id string, req taskstypes.UpdateTaskRequest) (*taskstypes.Task, error)

func (h *TaskHandler) update(c *gin.Context, apply updateFunc) {
	email, ok := owner(c)
	if !ok {
		return
	}

	var req taskstypes.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequestResponse(c, "invalid request body")
		return
	}

	task, err := apply(c.Request.Context(), email, c.Param("id"), req)
	if err != nil {
		writeTaskError(c, err)
		return
	}
	responses.JSONData(c, http.StatusOK, task)
}

// Delete godoc
// @Summary      Delete a task
// @Tags         tasks
// @Security     BearerAuth
// @Param        id   path  string  true  "Task ID"
// @Success      204
// @Failure      401  {object}  errors.HTTPError
// @Failure      404  {object}  errors.HTTPError
// @Router       /api/tasks/{id}/ [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	email, ok := owner(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), email, c.Param("id")); err != nil {
		writeTaskError(c, err)
		return
	}
	responses.NoContent(c)
}
