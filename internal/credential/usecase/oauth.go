package usecase

import (
	"context"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"saas-action-bot/internal/credential"
)

// oauthConfig builds the client config for one token endpoint.
func (uc *implUseCase) oauthConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     uc.opts.ClientID,
		ClientSecret: uc.opts.ClientSecret,
		RedirectURL:  uc.opts.RedirectURL,
		Scopes:       uc.opts.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   strings.TrimRight(uc.opts.AccountsURL, "/") + uc.opts.AuthPath,
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// tokenURLFor joins an accounts server with the configured token path.
// A non-empty override must name the configured server or an allowed one;
// the configured entry is used, never the caller's string.
func (uc *implUseCase) tokenURLFor(override string) (string, error) {
	accounts := uc.opts.AccountsURL
	if override != "" {
		allowed, ok := uc.allowedAccountsServer(override)
		if !ok {
			return "", credential.ErrAccountsServerNotAllowed
		}
		accounts = allowed
	}
	return strings.TrimRight(accounts, "/") + uc.opts.TokenPath, nil
}

func (uc *implUseCase) allowedAccountsServer(raw string) (string, bool) {
	want, ok := originOf(raw)
	if !ok {
		return "", false
	}
	candidates := append([]string{uc.opts.AccountsURL}, uc.opts.AllowedAccountsURLs...)
	for _, c := range candidates {
		if origin, ok := originOf(c); ok && origin == want {
			return c, true
		}
	}
	return "", false
}

// originOf returns scheme://host for absolute http(s) URLs.
func originOf(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || u.User != nil {
		return "", false
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "https" && scheme != "http" {
		return "", false
	}
	return scheme + "://" + strings.ToLower(u.Host), true
}

// withHTTPClient makes oauth2 use our client for token endpoint calls.
func (uc *implUseCase) withHTTPClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, uc.httpClient)
}

// apiDomain reads the API base URL some providers return next to the token.
func apiDomain(tok *oauth2.Token) string {
	if v, ok := tok.Extra("api_domain").(string); ok {
		return strings.TrimRight(v, "/")
	}
	return ""
}
