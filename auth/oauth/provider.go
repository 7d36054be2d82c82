package oauth

import (
	"context"

	"github.com/Yulian302/taskflow-gateway/auth/types"
)

// Provider performs the two outbound steps of an authorization code sign-in.
// Returned errors are *FederationError.
type Provider interface {
	ExchangeCode(ctx context.Context, code, redirectURI string) (accessToken string, err error)
	GetProfile(ctx context.Context, accessToken string) (types.GoogleProfile, error)
}
