package auth

import (
	cerror "errors"
	"strings"

	"github.com/Yulian302/taskflow-gateway/errors"
	jwttypes "github.com/Yulian302/taskflow-gateway/jwt"
	"github.com/gin-gonic/gin"
)

// ContextEmailKey is where JWTMiddleware stores the verified subject.
const ContextEmailKey = "email"

type TokenParser interface {
	ParseAccess(token string) (*jwttypes.JWTClaims, error)
}

func JWTMiddleware(parser TokenParser) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, ok := bearerToken(ctx.GetHeader("Authorization"))
		if !ok {
			errors.UnauthorizedResponse(ctx, "unauthorized")
			return
		}

		claims, err := parser.ParseAccess(token)
		if err != nil {
			if cerror.Is(err, errors.ErrInvalidTokenType) {
				errors.UnauthorizedResponse(ctx, "invalid token type")
			} else {
				errors.UnauthorizedResponse(ctx, "invalid_token")
			}
			return
		}

		ctx.Set(ContextEmailKey, claims.Subject)
		ctx.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
