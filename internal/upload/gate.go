// Package upload admits or rejects object uploads based on the capability
// token presented with the request, then proxies admitted objects to the
// blob store. Size and content-type constraints are enforced against the
// client-declared multipart metadata, not against sniffed file content.
package upload

import (
	"net/http"
	"time"

	"github.com/dropgate/service/internal/token"
)

// TokenHeader is the request header carrying the upload capability token.
const TokenHeader = "Upload-Token"

// GateError is a terminal admission failure with its HTTP mapping. Every
// failure ends the request; the client must obtain a fresh token or fix the
// payload and resubmit.
type GateError struct {
	Status  int
	Message string
}

func (e *GateError) Error() string { return e.Message }

// Gate validates the capability token on incoming upload requests.
type Gate struct {
	secret string
	now    func() time.Time
}

// NewGate creates a Gate verifying tokens against secret.
func NewGate(secret string) *Gate {
	return &Gate{secret: secret, now: time.Now}
}

// Check runs the structural checks that need no payload: token presence,
// authenticity, and expiry, in that order. On success it returns the token's
// constraints for the payload checks in the upload handler.
func (g *Gate) Check(r *http.Request) (*token.Constraints, *GateError) {
	raw := r.Header.Get(TokenHeader)
	if raw == "" {
		return nil, &GateError{Status: http.StatusUnauthorized, Message: "missing token"}
	}

	cons, err := token.Decode(raw, g.secret)
	if err != nil {
		return nil, &GateError{Status: http.StatusUnauthorized, Message: "invalid token"}
	}

	if cons.Expired(g.now()) {
		return nil, &GateError{Status: http.StatusUnauthorized, Message: "expired token"}
	}

	return cons, nil
}
