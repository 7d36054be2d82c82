package types

// GoogleLoginRequest is the body of POST /auth/google/.
// RedirectURI must equal the one used for the authorization redirect.
type GoogleLoginRequest struct {
	Code        string `json:"code" form:"code" example:"4/0AX4XfWh..."`
	RedirectURI string `json:"redirect_uri" form:"redirect_uri" example:"https://app.example.com/auth/callback"`
}

// GoogleProfile holds the userinfo fields the gateway relies on.
type GoogleProfile struct {
	Email      string
	GivenName  string
	FamilyName string
}

type LoginResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	User         UserInfo `json:"user"`
}
