package model

import "time"

// TenantCredential is the OAuth grant a tenant issued to this service.
type TenantCredential struct {
	TenantID     string
	AccessToken  string
	RefreshToken string
	TokenType    string
	Expiry       time.Time
	APIBaseURL   string
	TokenURL     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ExpiresWithin reports whether the access token is missing or expires within skew of now.
func (c TenantCredential) ExpiresWithin(now time.Time, skew time.Duration) bool {
	if c.AccessToken == "" {
		return true
	}
	if c.Expiry.IsZero() {
		return false
	}
	return !now.Add(skew).Before(c.Expiry)
}
