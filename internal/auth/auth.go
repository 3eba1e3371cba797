// Package auth issues and verifies the bearer tokens that bind an API
// client to one chat.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

const issuer = "fillbook"

// Claims carries the chat the token is bound to.
type Claims struct {
	ChatID int64 `json:"chat_id"`
	jwt.RegisteredClaims
}

type Authenticator struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func New(secret string, ttl time.Duration) (*Authenticator, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}

	return &Authenticator{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs an HS256 token for chatID. A zero ttl yields a token without
// expiry.
func (a *Authenticator) Issue(chatID int64) (string, error) {
	now := a.now()

	claims := Claims{
		ChatID: chatID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   issuer,
			Subject:  strconv.FormatInt(chatID, 10),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}

	if a.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(a.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

func (a *Authenticator) Parse(raw string) (*Claims, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	return &claims, nil
}

type ctxKey struct{}

// Middleware rejects requests without a valid bearer token and stores the
// token's chat id in the request context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			http.Error(w, ErrMissingToken.Error(), http.StatusUnauthorized)
			return
		}

		claims, err := a.Parse(strings.TrimSpace(raw))
		if err != nil {
			http.Error(w, ErrInvalidToken.Error(), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithChatID(r.Context(), claims.ChatID)))
	})
}

func WithChatID(ctx context.Context, chatID int64) context.Context {
	return context.WithValue(ctx, ctxKey{}, chatID)
}

// ChatID returns the chat bound to the request by Middleware.
func ChatID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxKey{}).(int64)
	return id, ok
}
