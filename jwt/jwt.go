// Package jwt issues and verifies the gateway's session credentials.
//
// Both tokens are HS256 JWTs whose subject is the user's email. Access and
// refresh tokens are signed with different keys and carry a "typ" claim, so
// one can never be used in place of the other. Nothing is stored server-side.
package jwt

import (
	"errors"
	"fmt"
	"time"

	apperror "github.com/Yulian302/taskflow-gateway/errors"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	Issuer = "taskflow"

	TypeAccess  = "access"
	TypeRefresh = "refresh"

	DefaultAccessTokenDuration  = 15 * time.Minute
	DefaultRefreshTokenDuration = 7 * 24 * time.Hour
)

type JWTClaims struct {
	Type string `json:"typ"`
	gojwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTokenDuration
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTokenDuration
	}
	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// Issue mints an access/refresh pair bound to subject.
func (i *TokenIssuer) Issue(subject string) (*TokenPair, error) {
	if subject == "" {
		return nil, fmt.Errorf("%w: empty subject", apperror.ErrTokenSignature)
	}

	now := i.now()

	access, err := i.sign(subject, TypeAccess, now, i.accessTTL, i.accessSecret)
	if err != nil {
		return nil, err
	}
	refresh, err := i.sign(subject, TypeRefresh, now, i.refreshTTL, i.refreshSecret)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (i *TokenIssuer) sign(subject, typ string, now time.Time, ttl time.Duration, secret []byte) (string, error) {
	claims := JWTClaims{
		Type: typ,
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   subject,
			IssuedAt:  gojwt.NewNumericDate(now),
			NotBefore: gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperror.ErrTokenSignature, err)
	}
	return signed, nil
}

// ParseAccess verifies an access token and returns its claims.
func (i *TokenIssuer) ParseAccess(token string) (*JWTClaims, error) {
	return i.parse(token, TypeAccess, i.accessSecret)
}

// ParseRefresh verifies a refresh token and returns its claims. No route
// consumes refresh tokens; this lets issued ones be checked.
func (i *TokenIssuer) ParseRefresh(token string) (*JWTClaims, error) {
	return i.parse(token, TypeRefresh, i.refreshSecret)
}

func (i *TokenIssuer) parse(token, typ string, secret []byte) (*JWTClaims, error) {
	parsed, err := gojwt.ParseWithClaims(
		token,
		&JWTClaims{},
		func(t *gojwt.Token) (any, error) {
			return secret, nil
		},
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithIssuer(Issuer),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(i.now),
	)
	if err != nil || !parsed.Valid {
		if err == nil {
			err = errors.New("token not valid")
		}
		return nil, fmt.Errorf("%w: %w", apperror.ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", apperror.ErrInvalidToken)
	}
	if claims.Type != typ {
		return nil, fmt.Errorf("%w: want %s, got %q", apperror.ErrInvalidTokenType, typ, claims.Type)
	}
	return claims, nil
}
