package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrForbidden    = errors.New("role not allowed")
)

type JwtCustomClaim struct {
	ID   int    `json:"id"`
	Role string `json:"rol"`
	jwt.StandardClaims
}

type contextKey struct{}

// Sign issues an HS256 token. Tokens are normally issued by the login
// service; this is used by tooling and tests.
func Sign(secret string, userID int, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &JwtCustomClaim{
		ID:   userID,
		Role: role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
	})
	return t.SignedString([]byte(secret))
}

func Validate(secret, token string) (*JwtCustomClaim, error) {
	parsed, err := jwt.ParseWithClaims(token, &JwtCustomClaim{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*JwtCustomClaim)
	if !ok || !parsed.Valid || claims.ID <= 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Middleware rejects requests without a valid bearer token. The claims are
// stored in the request context.
func Middleware(secret string, onError func(http.ResponseWriter, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || strings.TrimSpace(token) == "" {
				onError(w, ErrMissingToken)
				return
			}
			claims, err := Validate(secret, strings.TrimSpace(token))
			if err != nil {
				onError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRoles must run after Middleware.
func RequireRoles(onError func(http.ResponseWriter, error), roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := FromContext(r.Context())
			if !ok {
				onError(w, ErrMissingToken)
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			onError(w, fmt.Errorf("%w: %s", ErrForbidden, claims.Role))
		})
	}
}

func WithClaims(ctx context.Context, claims *JwtCustomClaim) context.Context {
	return context.WithValue(ctx, contextKey{}, claims)
}

func FromContext(ctx context.Context) (*JwtCustomClaim, bool) {
	claims, ok := ctx.Value(contextKey{}).(*JwtCustomClaim)
	return claims, ok
}
