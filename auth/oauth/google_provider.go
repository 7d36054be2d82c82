package oauth

import (
	"bytes"
	"context"
	"errors"
	"net/url"

	"github.com/Yulian302/taskflow-gateway/auth"
	"github.com/Yulian302/taskflow-gateway/auth/types"
	"github.com/Yulian302/taskflow-gateway/config"
	"github.com/sony/gobreaker/v2"
	"github.com/tidwall/gjson"
)

const (
	unknownErrorDetail   = "Unknown error"
	transportErrorDetail = "could not read response from Google"
	unavailableDetail    = "Google is temporarily unavailable"
)

type googleProvider struct {
	cfg    *config.GoogleConfig
	client *auth.Client

	exchangeBreaker *gobreaker.CircuitBreaker[[]byte]
	profileBreaker  *gobreaker.CircuitBreaker[[]byte]
}

func NewGoogleProvider(cfg *config.GoogleConfig, client *auth.Client) *googleProvider {
	if client == nil {
		client = auth.NewClient(cfg.Timeout)
	}
	return &googleProvider{
		cfg:    cfg,
		client: client,

		exchangeBreaker: NewBreaker("google:token"),
		profileBreaker:  NewBreaker("google:userinfo"),
	}
}

func (p *googleProvider) ExchangeCode(ctx context.Context, code, redirectURI string) (string, error) {
	data := url.Values{}
	data.Set("code", code)
	data.Set("client_id", p.cfg.ClientID)
	data.Set("client_secret", p.cfg.ClientSecret)
	data.Set("redirect_uri", redirectURI)
	data.Set("grant_type", "authorization_code")

	body, err := p.exchangeBreaker.Execute(func() ([]byte, error) {
		return p.client.PostForm(ctx, p.cfg.ExchangeURL, data)
	})
	if err != nil {
		return "", newError(KindProviderExchangeFailed, exchangeErrorDetails(err), err)
	}

	if !gjson.ValidBytes(body) {
		return "", newError(KindProviderExchangeFailed, string(body), errors.New("token response is not JSON"))
	}

	token := gjson.GetBytes(body, "access_token")
	if token.Type != gjson.String || token.Str == "" {
		return "", newError(KindMissingAccessToken, nil, nil)
	}
	return token.Str, nil
}

func (p *googleProvider) GetProfile(ctx context.Context, accessToken string) (types.GoogleProfile, error) {
	body, err := p.profileBreaker.Execute(func() ([]byte, error) {
		return p.client.GetWithToken(ctx, p.cfg.UserInfoURL, accessToken)
	})
	if err != nil {
		return types.GoogleProfile{}, newError(KindProviderProfileFailed, nil, err)
	}

	if !gjson.ValidBytes(body) {
		return types.GoogleProfile{}, newError(KindProviderProfileFailed, nil, errors.New("userinfo response is not JSON"))
	}

	fields := gjson.GetManyBytes(body, "email", "given_name", "family_name")
	if fields[0].Type != gjson.String || fields[0].Str == "" {
		return types.GoogleProfile{}, newError(KindMissingEmail, nil, nil)
	}

	return types.GoogleProfile{
		Email:      fields[0].Str,
		GivenName:  fields[1].String(),
		FamilyName: fields[2].String(),
	}, nil
}

// exchangeErrorDetails extracts what the provider said about a failed
// exchange. It never fails: unreadable or missing bodies map to fixed text.
func exchangeErrorDetails(err error) any {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return unavailableDetail
	}

	var se *auth.StatusError
	if !errors.As(err, &se) {
		return transportErrorDetail
	}
	if se.ReadErr != nil {
		return transportErrorDetail
	}

	body := bytes.TrimSpace(se.Body)
	if len(body) == 0 {
		return unknownErrorDetail
	}
	if gjson.ValidBytes(body) {
		if v := gjson.ParseBytes(body).Value(); v != nil {
			return v
		}
		return unknownErrorDetail
	}
	return string(body)
}
