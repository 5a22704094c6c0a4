package token

import (
	"crypto/subtle"
	"errors"

	"github.com/dropgate/service/internal/config"
)

// ErrForbidden is returned when the caller's API key does not match.
var ErrForbidden = errors.New("invalid API key")

// Issuer mints capability tokens for callers holding the internal API key.
// The upload policy comes from server configuration, never from the request,
// so a caller cannot ask for a wider token than the server is willing to sign.
type Issuer struct {
	cfg *config.Config
}

// NewIssuer creates a new Issuer.
func NewIssuer(cfg *config.Config) *Issuer {
	return &Issuer{cfg: cfg}
}

// Issue validates the caller's API key and mints a capability token with the
// configured policy. The key comparison is constant-time.
func (i *Issuer) Issue(callerKey string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(callerKey), []byte(i.cfg.InternalAPIKey)) != 1 {
		return "", ErrForbidden
	}
	return Mint(Policy{
		TTL:          i.cfg.TokenTTL,
		MaxSize:      i.cfg.MaxUploadSize,
		AllowedTypes: i.cfg.AllowedTypes,
	}, i.cfg.TokenSecret)
}
