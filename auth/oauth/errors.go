package oauth

import "fmt"

type ErrorKind int

const (
	KindMissingCode ErrorKind = iota + 1
	KindMissingRedirectURI
	KindProviderExchangeFailed
	KindMissingAccessToken
	KindProviderProfileFailed
	KindMissingEmail
)

// Category groups failure kinds by who is at fault.
type Category int

const (
	CategoryClientInput Category = iota + 1
	CategoryProvider
	CategoryProviderData
)

var kindMessages = map[ErrorKind]string{
	KindMissingCode:            "Code is required",
	KindMissingRedirectURI:     "redirect_uri is required",
	KindProviderExchangeFailed: "Failed to exchange code with Google",
	KindMissingAccessToken:     "No access token received from Google",
	KindProviderProfileFailed:  "Failed to get user info from Google",
	KindMissingEmail:           "Email not provided by Google",
}

var kindNames = map[ErrorKind]string{
	KindMissingCode:            "MissingCode",
	KindMissingRedirectURI:     "MissingRedirectUri",
	KindProviderExchangeFailed: "ProviderExchangeFailed",
	KindMissingAccessToken:     "MissingAccessToken",
	KindProviderProfileFailed:  "ProviderProfileFailed",
	KindMissingEmail:           "MissingEmail",
}

func (k ErrorKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Message is the client-facing error text for k.
func (k ErrorKind) Message() string {
	return kindMessages[k]
}

func (k ErrorKind) Category() Category {
	switch k {
	case KindMissingCode, KindMissingRedirectURI:
		return CategoryClientInput
	case KindProviderExchangeFailed, KindProviderProfileFailed:
		return CategoryProvider
	default:
		return CategoryProviderData
	}
}

// FederationError is a terminal failure of the sign-in flow.
// Details, when set, is safe to return to the caller.
type FederationError struct {
	Kind    ErrorKind
	Details any
	Err     error
}

func (e *FederationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *FederationError) Unwrap() error {
	return e.Err
}

// Is matches on Kind so callers can use errors.Is with the sentinels below.
func (e *FederationError) Is(target error) bool {
	t, ok := target.(*FederationError)
	return ok && t.Kind == e.Kind
}

var (
	ErrMissingCode            = &FederationError{Kind: KindMissingCode}
	ErrMissingRedirectURI     = &FederationError{Kind: KindMissingRedirectURI}
	ErrProviderExchangeFailed = &FederationError{Kind: KindProviderExchangeFailed}
	ErrMissingAccessToken     = &FederationError{Kind: KindMissingAccessToken}
	ErrProviderProfileFailed  = &FederationError{Kind: KindProviderProfileFailed}
	ErrMissingEmail           = &FederationError{Kind: KindMissingEmail}
)

func newError(kind ErrorKind, details any, err error) *FederationError {
	return &FederationError{Kind: kind, Details: details, Err: err}
}
