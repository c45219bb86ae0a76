package webhook

// SignatureHeader carries "sha256=<hex HMAC of body>".
const (
	SignatureHeader        = "X-Webhook-Signature"
	SignaturePrefix        = "sha256="
	DefaultRateLimitPerMin = 60
)

// SecurityConfig holds webhook security settings
type SecurityConfig struct {
	Secret          string   // Shared secret for signature verification, empty disables the check
	AllowedIPs      []string // IP allow list (optional)
	RateLimitPerMin int      // Max requests per minute per tenant
}
