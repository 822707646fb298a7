package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vendorshub/backend/internal/domain/entities"
	"github.com/vendorshub/backend/internal/domain/providers"
	apperrors "github.com/vendorshub/backend/pkg/errors"
)

type claims struct {
	Role entities.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTProvider issues HS256 bearer tokens carrying user id and role
type JWTProvider struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

var _ providers.TokenProvider = (*JWTProvider)(nil)

// NewJWTProvider creates a token provider
func NewJWTProvider(secret string, ttl time.Duration) *JWTProvider {
	return &JWTProvider{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for identity
func (p *JWTProvider) Issue(identity entities.Identity) (string, error) {
	now := p.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	})

	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", apperrors.NewInternalError("failed to sign token", err)
	}
	return signed, nil
}

// Verify validates signature and expiry and returns the carried identity
func (p *JWTProvider) Verify(tokenStr string) (entities.Identity, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &claims{}, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return entities.Identity{}, apperrors.NewUnauthorizedError(fmt.Sprintf("invalid token: %v", err))
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid || c.Subject == "" || !c.Role.Valid() {
		return entities.Identity{}, apperrors.NewUnauthorizedError("invalid token claims")
	}

	return entities.Identity{UserID: c.Subject, Role: c.Role}, nil
}
