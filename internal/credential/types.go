package credential

import "time"

// AuthorizeInput is the authorization callback payload.
type AuthorizeInput struct {
	TenantID string
	Code     string
	// AccountsURL overrides the configured accounts server, for multi-region providers.
	// It must match the configured server or one of AllowedAccountsURLs.
	AccountsURL string
}

// Options configures the tenant OAuth client.
type Options struct {
	ClientID            string
	ClientSecret        string
	RedirectURL         string
	AccountsURL         string
	AllowedAccountsURLs []string
	AuthPath            string
	TokenPath           string
	DefaultAPIBaseURL   string
	Scopes              []string
	RefreshSkew         time.Duration
	RefreshTimeout      time.Duration

	// StateSecret signs the OAuth state parameter. Defaults to ClientSecret.
	StateSecret string
	StateTTL    time.Duration
}
