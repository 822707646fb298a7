package services

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vendorshub/backend/internal/domain/entities"
	"github.com/vendorshub/backend/internal/domain/providers"
	"github.com/vendorshub/backend/internal/domain/repositories"
	apperrors "github.com/vendorshub/backend/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted at registration
const MinPasswordLength = 6

// Registration is the input of a new account
type Registration struct {
	Name     string
	Email    string
	Password string
	Role     entities.Role
}

// Session is a signed-in account and its bearer token
type Session struct {
	Token string         `json:"token"`
	User  *entities.User `json:"user"`
}

// AccountService registers users and signs them in
type AccountService struct {
	users    repositories.UserRepository
	tokens   providers.TokenProvider
	hashCost int
	now      func() time.Time
}

// NewAccountService creates a new account service
func NewAccountService(users repositories.UserRepository, tokens providers.TokenProvider) *AccountService {
	return &AccountService{
		users:    users,
		tokens:   tokens,
		hashCost: bcrypt.DefaultCost,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register creates an account and signs it in
func (s *AccountService) Register(ctx context.Context, in Registration) (*Session, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)

	switch {
	case name == "":
		return nil, apperrors.NewValidationError("name is required")
	case email == "":
		return nil, apperrors.NewValidationError("email is required")
	case !validEmail(email):
		return nil, apperrors.NewValidationError("email is invalid")
	case len(in.Password) < MinPasswordLength:
		return nil, apperrors.NewValidationError("password is too short")
	case !in.Role.Valid():
		return nil, apperrors.NewValidationError("role must be vendor or customer")
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil && !apperrors.Is(err, apperrors.ErrorTypeNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	user := &entities.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         in.Role,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.session(user)
}

// Login verifies credentials. Unknown emails and wrong passwords fail the same way.
func (s *AccountService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if apperrors.Is(err, apperrors.ErrorTypeNotFound) {
		return nil, apperrors.NewUnauthorizedError("invalid email or password")
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid email or password")
	}

	return s.session(user)
}

func (s *AccountService) session(user *entities.User) (*Session, error) {
	token, err := s.tokens.Issue(entities.Identity{UserID: user.ID, Role: user.Role})
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
