package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lauzhack/pictorial/internal/domain"
	"github.com/lauzhack/pictorial/internal/repository"
	"github.com/lauzhack/pictorial/internal/session"
	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is bcrypt's input limit.
const maxPasswordBytes = 72

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordTooLong    = errors.New("password longer than 72 bytes")
)

type AuthService struct {
	userRepo repository.UserRepository
	codec    session.Codec
	hashCost int
}

func NewAuthService(userRepo repository.UserRepository, codec session.Codec) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		codec:    codec,
		hashCost: bcrypt.DefaultCost,
	}
}

// WithHashCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.hashCost = cost
	return s
}

type SignupInput struct {
	Email    string
	Password string
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*domain.User, error) {
	if len(input.Password) > maxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        normalizeEmail(input.Email),
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate returns the user owning the email/password pair. Unknown
// emails and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *AuthService) IssueSession(user *domain.User) (string, error) {
	return s.codec.Encode(user.ID)
}

func (s *AuthService) SessionMaxAge() time.Duration {
	return s.codec.MaxAge()
}

// ResolveSession maps a cookie value onto its user. Values that do not decode
// yield session.ErrInvalidSession, ids without a user domain.ErrUserNotFound.
func (s *AuthService) ResolveSession(ctx context.Context, value string) (*domain.User, error) {
	userID, err := s.codec.Decode(value)
	if err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
