// Package auth provides the admin session context. Credential checks happen
// in an external identity service; this package only verifies the signed
// token it issued and exposes the session as an explicit value, so access
// checks are one pure predicate instead of ad-hoc per-screen state.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/horizonbtp/vitrine/internal/errors"
)

// Role is a named capability granted to a session.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

// Session is the authenticated caller's identity for one request.
type Session struct {
	Subject   string
	Roles     []Role
	ExpiresAt time.Time
}

// HasRole reports whether the session carries the role. Nil sessions carry
// nothing.
func HasRole(s *Session, role Role) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Verifier parses and validates session tokens.
type Verifier struct {
	key []byte
}

// NewVerifier creates a Verifier over the shared HMAC signing key.
func NewVerifier(signingKey string) *Verifier {
	return &Verifier{key: []byte(signingKey)}
}

type sessionClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Parse validates a bearer token and returns the session it encodes.
func (v *Verifier) Parse(token string) (*Session, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.Wrap(apperrors.ErrAuthExpired, "session expired", err)
		}
		return nil, apperrors.Wrap(apperrors.ErrAuthToken, "invalid session token", err)
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return nil, apperrors.New(apperrors.ErrAuthToken, "invalid session token")
	}

	session := &Session{Subject: claims.Subject}
	for _, r := range claims.Roles {
		session.Roles = append(session.Roles, Role(r))
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

// Issue signs a token for the session. Used by tests and provisioning; the
// production identity service issues tokens with the same claims.
func Issue(signingKey string, session Session) (string, error) {
	roles := make([]string, 0, len(session.Roles))
	for _, r := range session.Roles {
		roles = append(roles, string(r))
	}

	claims := sessionClaims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.Subject,
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(signingKey))
}

type ctxKey struct{}

// WithSession attaches the session to the context.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session attached to the context, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}
