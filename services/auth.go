package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Yulian302/taskflow-gateway/auth/oauth"
	"github.com/Yulian302/taskflow-gateway/auth/types"
	jwttypes "github.com/Yulian302/taskflow-gateway/jwt"
	"github.com/Yulian302/taskflow-gateway/logging"
	"github.com/Yulian302/taskflow-gateway/store"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// provisionTimeout bounds the shared store round trip, which outlives any
// single caller's request.
const provisionTimeout = 10 * time.Second

type AuthService interface {
	// GoogleLogin exchanges an authorization code for a local session,
	// creating the user on first sign-in.
	GoogleLogin(ctx context.Context, req types.GoogleLoginRequest) (*types.LoginResponse, error)
	GetCurrentUser(ctx context.Context, email string) (*types.User, error)
}

type TokenIssuer interface {
	Issue(subject string) (*jwttypes.TokenPair, error)
}

type AuthServiceImpl struct {
	provider  oauth.Provider
	userStore store.UserStore
	issuer    TokenIssuer

	provisions singleflight.Group
	now        func() time.Time
}

func NewAuthServiceImpl(provider oauth.Provider, userStore store.UserStore, issuer TokenIssuer) *AuthServiceImpl {
	return &AuthServiceImpl{
		provider:  provider,
		userStore: userStore,
		issuer:    issuer,
		now:       time.Now,
	}
}

func (s *AuthServiceImpl) GoogleLogin(ctx context.Context, req types.GoogleLoginRequest) (*types.LoginResponse, error) {
	log := logging.FromContext(ctx).With(slog.String("provider", "google"))

	if req.Code == "" {
		return nil, oauth.ErrMissingCode
	}
	if req.RedirectURI == "" {
		return nil, oauth.ErrMissingRedirectURI
	}

	accessToken, err := s.provider.ExchangeCode(ctx, req.Code, req.RedirectURI)
	if err != nil {
		log.Warn("code exchange failed", slog.Any("error", err))
		return nil, err
	}

	profile, err := s.provider.GetProfile(ctx, accessToken)
	if err != nil {
		log.Warn("profile fetch failed", slog.Any("error", err))
		return nil, err
	}

	user, err := s.provision(ctx, profile)
	if err != nil {
		log.Error("user provisioning failed", slog.Any("error", err))
		return nil, err
	}

	pair, err := s.issuer.Issue(user.Email)
	if err != nil {
		log.Error("token issuance failed", slog.Any("error", err))
		return nil, err
	}

	log.Info("google sign-in succeeded", slog.String("user_id", user.ID))

	return &types.LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user.Info(),
	}, nil
}

// provision returns the user for profile.Email, creating it if needed.
// Concurrent calls for the same email share one store round trip.
func (s *AuthServiceImpl) provision(ctx context.Context, profile types.GoogleProfile) (*types.User, error) {
	v, err, _ := s.provisions.Do(profile.Email, func() (any, error) {
		candidate := types.User{
			ID:        uuid.NewString(),
			Email:     profile.Email,
			Username:  profile.Email,
			FirstName: profile.GivenName,
			LastName:  profile.FamilyName,
			CreatedAt: s.now().UTC().Truncate(time.Millisecond),
		}

		// waiters for the same email share this call, so one caller
		// disconnecting must not cancel it for the rest
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), provisionTimeout)
		defer cancel()

		user, created, err := store.GetOrCreate(sctx, s.userStore, candidate)
		if err != nil {
			return nil, fmt.Errorf("provision user: %w", err)
		}
		if created {
			logging.FromContext(ctx).Info("user created", slog.String("user_id", user.ID))
		}
		return user, nil
	})
	if err != nil {
		return nil, err
	}

	// callers share the pointer; hand each one its own copy
	user := *v.(*types.User)
	return &user, nil
}

func (s *AuthServiceImpl) GetCurrentUser(ctx context.Context, email string) (*types.User, error) {
	return s.userStore.GetByEmail(ctx, email)
}
