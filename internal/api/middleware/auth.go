package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vendorshub/backend/internal/domain/entities"
	"github.com/vendorshub/backend/internal/domain/providers"
)

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying the authenticated caller
func WithIdentity(ctx context.Context, identity entities.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFrom returns the authenticated caller stored on ctx
func IdentityFrom(ctx context.Context) (entities.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(entities.Identity)
	return identity, ok
}

// Auth resolves bearer tokens into identities
type Auth struct {
	tokens providers.TokenProvider
}

// NewAuth creates a new auth middleware
func NewAuth(tokens providers.TokenProvider) *Auth {
	return &Auth{tokens: tokens}
}

// Require rejects requests without a valid bearer token with 401
func (a *Auth) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			unauthorized(w, "authentication required")
			return
		}

		identity, err := a.tokens.Verify(token)
		if err != nil {
			unauthorized(w, "invalid or expired token")
			return
		}

		next(w, r.WithContext(WithIdentity(r.Context(), identity)))
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
