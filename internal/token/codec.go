// Package token implements upload capability tokens: short-lived signed
// credentials that encode the exact constraints an upload must satisfy.
// The codec (Mint/Decode) handles authenticity only; expiry and the
// size/type policy are enforced by the upload gate, so new constraint
// fields never touch the signing primitive.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrBadSignature is returned when a token's HMAC does not verify under the
// configured secret.
var ErrBadSignature = errors.New("bad signature")

// ErrMalformed is returned when a token is structurally invalid.
var ErrMalformed = errors.New("malformed token")

// Policy is the server-side upload policy baked into every minted token.
type Policy struct {
	TTL          time.Duration
	MaxSize      int64
	AllowedTypes []string
}

// Constraints are the upload limits carried by a decoded token.
type Constraints struct {
	ExpiresAt    time.Time
	MaxSize      int64
	AllowedTypes []string
}

// Expired reports whether the token has expired at the given instant.
// A token is expired when now >= ExpiresAt.
func (c *Constraints) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// TypeAllowed reports whether the declared content type is permitted.
// Matching is a case-sensitive exact comparison.
func (c *Constraints) TypeAllowed(contentType string) bool {
	for _, t := range c.AllowedTypes {
		if t == contentType {
			return true
		}
	}
	return false
}

type uploadClaims struct {
	MaxSize      int64    `json:"maxSize"`
	AllowedTypes []string `json:"allowedTypes"`
	jwt.RegisteredClaims
}

// Mint builds a signed capability token embedding the policy constraints and
// an expiry of now + p.TTL. It fails only on key-material errors.
func Mint(p Policy, secret string) (string, error) {
	claims := uploadClaims{
		MaxSize:      p.MaxSize,
		AllowedTypes: p.AllowedTypes,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(p.TTL)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(secret))
}

// Decode verifies the token's signature under secret and returns the embedded
// constraints. Expired tokens decode successfully: the codec answers only
// "was this minted by us?", leaving time-based policy to the caller.
func Decode(tokenString, secret string) (*Constraints, error) {
	var claims uploadClaims
	tok, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrSignatureInvalid) {
			return nil, ErrBadSignature
		}
		return nil, ErrMalformed
	}
	if !tok.Valid || claims.ExpiresAt == nil {
		return nil, ErrMalformed
	}

	return &Constraints{
		ExpiresAt:    claims.ExpiresAt.Time,
		MaxSize:      claims.MaxSize,
		AllowedTypes: claims.AllowedTypes,
	}, nil
}
