package providers

import "github.com/vendorshub/backend/internal/domain/entities"

// TokenProvider issues and verifies bearer tokens carrying an identity
type TokenProvider interface {
	Issue(identity entities.Identity) (string, error)
	Verify(token string) (entities.Identity, error)
}
