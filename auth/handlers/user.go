package handlers

import (
	cerror "errors"
	"net/http"

	"github.com/Yulian302/taskflow-gateway/auth"
	"github.com/Yulian302/taskflow-gateway/errors"
	"github.com/Yulian302/taskflow-gateway/responses"
	"github.com/Yulian302/taskflow-gateway/services"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	authSvc services.AuthService
}

func NewUserHandler(authSvc services.AuthService) *UserHandler {
	return &UserHandler{
		authSvc: authSvc,
	}
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  types.UserInfo
// @Failure      401  {object}  errors.HTTPError
// @Failure      404  {object}  errors.HTTPError
// @Router       /auth/user/ [get]
func (h *UserHandler) Me(c *gin.Context) {
	email := c.GetString(auth.ContextEmailKey)
	if email == "" {
		errors.UnauthorizedResponse(c, "user not authenticated")
		return
	}

	user, err := h.authSvc.GetCurrentUser(c.Request.Context(), email)
	if err != nil {
		if cerror.Is(err, errors.ErrUserNotFound) {
			errors.NotFoundResponse(c, "user not found")
		} else {
			errors.InternalServerErrorResponse(c, "could not load user")
		}
		return
	}

	c.JSON(http.StatusOK, user.Info())
}

// Logout godoc
// @Summary      Sign out
// @Description  Sessions are stateless; the client discards its tokens
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  responses.MessageResponse
// @Failure      401  {object}  errors.HTTPError
// @Router       /auth/logout/ [post]
func (h *UserHandler) Logout(c *gin.Context) {
	responses.JSONSuccess(c, "Successfully logged out")
}
