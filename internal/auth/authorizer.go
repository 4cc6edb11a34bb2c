// Package auth decides whether a caller may use the admin endpoints.
//
// Handlers depend only on Authorizer, so the shared-secret check can be
// replaced (sessions, an identity provider) without touching them.
package auth

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Authorizer interface {
	Authorize(provided string) bool
}

// AuthorizerFunc adapts a plain function.
type AuthorizerFunc func(provided string) bool

func (f AuthorizerFunc) Authorize(provided string) bool { return f(provided) }

type SecretAuthorizer struct {
	secret []byte
}

func NewSecretAuthorizer(secret string) *SecretAuthorizer {
	return &SecretAuthorizer{secret: []byte(secret)}
}

func (a *SecretAuthorizer) Authorize(provided string) bool {
	if provided == "" || len(a.secret) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), a.secret) == 1
}

const tokenSubject = "admin"

// TokenAuthorizer issues and accepts HS256 admin tokens.
type TokenAuthorizer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewTokenAuthorizer(key string, ttl time.Duration) *TokenAuthorizer {
	return &TokenAuthorizer{key: []byte(key), ttl: ttl, now: time.Now}
}

func (a *TokenAuthorizer) Issue() (string, error) {
	if len(a.key) == 0 {
		return "", errors.New("auth: empty signing key")
	}
	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   tokenSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.key)
}

func (a *TokenAuthorizer) Authorize(provided string) bool {
	if provided == "" {
		return false
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(provided, claims, func(t *jwt.Token) (any, error) {
		return a.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(tokenSubject),
		jwt.WithTimeFunc(a.now),
	)
	return err == nil && token.Valid
}

// Any passes when at least one of the authorizers passes.
func Any(authorizers ...Authorizer) Authorizer {
	return AuthorizerFunc(func(provided string) bool {
		for _, a := range authorizers {
			if a.Authorize(provided) {
				return true
			}
		}
		return false
	})
}
