package handlers

import (
	cerror "errors"
	"net/http"

	"github.com/Yulian302/taskflow-gateway/auth/oauth"
	"github.com/Yulian302/taskflow-gateway/auth/types"
	"github.com/Yulian302/taskflow-gateway/errors"
	"github.com/Yulian302/taskflow-gateway/services"
	"github.com/gin-gonic/gin"
)

const redirectURIHint = "Make sure frontend sends redirect_uri in request body"

type GoogleHandler struct {
	authSvc services.AuthService
}

func NewGoogleHandler(authSvc services.AuthService) *GoogleHandler {
	return &GoogleHandler{
		authSvc: authSvc,
	}
}

// FederationErrorResponse is the 400 body of a failed sign-in.
type FederationErrorResponse struct {
	Error   string `json:"error" example:"Failed to exchange code with Google"`
	Hint    string `json:"hint,omitempty" example:"Make sure frontend sends redirect_uri in request body"`
	Details any    `json:"details,omitempty"`
}

// Login godoc
// @Summary      Sign in with Google
// @Description  Exchanges a Google authorization code for a session token pair, creating the user on first sign-in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      types.GoogleLoginRequest  true  "Authorization code and redirect URI"
// @Success      200  {object}  types.LoginResponse
// @Failure      400  {object}  FederationErrorResponse
// @Failure      500  {object}  errors.HTTPError
// @Router       /auth/google/ [post]
func (h *GoogleHandler) Login(c *gin.Context) {
	var req types.GoogleLoginRequest
	// malformed bodies fall through to the missing-field checks
	_ = c.ShouldBindJSON(&req)

	resp, err := h.authSvc.GoogleLogin(c.Request.Context(), req)
	if err != nil {
		var fe *oauth.FederationError
		switch {
		case cerror.As(err, &fe):
			c.AbortWithStatusJSON(http.StatusBadRequest, federationResponse(fe))
		case cerror.Is(err, errors.ErrTokenSignature):
			errors.InternalServerErrorResponse(c, "failed to generate session")
		default:
			errors.InternalServerErrorResponse(c, "failed to provision user")
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

func federationResponse(fe *oauth.FederationError) FederationErrorResponse {
	body := FederationErrorResponse{Error: fe.Kind.Message()}

	switch fe.Kind {
	case oauth.KindMissingRedirectURI:
		body.Hint = redirectURIHint
	case oauth.KindProviderExchangeFailed:
		body.Details = fe.Details
	}
	return body
}
