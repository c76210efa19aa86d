package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lauzhack/pictorial/internal/domain"
	"github.com/lauzhack/pictorial/internal/repository/gormdb"
	"github.com/lauzhack/pictorial/internal/service"
	"github.com/lauzhack/pictorial/internal/session"
	"github.com/lauzhack/pictorial/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T, codec session.Codec) *service.AuthService {
	t.Helper()
	testDB := testutil.NewTestDB(t)
	repos := gormdb.NewRepositories(testDB.DB, 5*time.Second)
	return service.NewAuthService(repos.User, codec).WithHashCost(bcrypt.MinCost)
}

func TestAuthService_Signup(t *testing.T) {
	auth := newAuthService(t, session.PlainCodec{})
	ctx := context.Background()

	user, err := auth.Signup(ctx, service.SignupInput{Email: "  A@B.com ", Password: "pw"})
	require.NoError(t, err)

	assert.Positive(t, user.ID)
	assert.Equal(t, "a@b.com", user.Email)
	assert.NotEqual(t, "pw", user.PasswordHash, "password must be hashed")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw")))

	_, err = auth.Signup(ctx, service.SignupInput{Email: "a@b.com", Password: "other"})
	assert.ErrorIs(t, err, domain.ErrEmailExists)
}

func TestAuthService_SignupPasswordLength(t *testing.T) {
	auth := newAuthService(t, session.PlainCodec{})
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "72 ascii bytes", email: "ascii@b.com", password: strings.Repeat("x", 72)},
		{name: "73 ascii bytes", email: "long@b.com", password: strings.Repeat("x", 73), wantErr: service.ErrPasswordTooLong},
		{name: "72 runes of two bytes each", email: "runes@b.com", password: strings.Repeat("é", 72), wantErr: service.ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := auth.Signup(ctx, service.SignupInput{Email: tt.email, Password: tt.password})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Positive(t, user.ID)
		})
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	auth := newAuthService(t, session.PlainCodec{})
	ctx := context.Background()

	created, err := auth.Signup(ctx, service.SignupInput{Email: "a@b.com", Password: "pw"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid credentials", email: "a@b.com", password: "pw"},
		{name: "email is case insensitive", email: "A@B.COM", password: "pw"},
		{name: "wrong password", email: "a@b.com", password: "nope", wantErr: service.ErrInvalidCredentials},
		{name: "unknown email", email: "x@b.com", password: "pw", wantErr: service.ErrInvalidCredentials},
		{name: "empty password", email: "a@b.com", password: "", wantErr: service.ErrInvalidCredentials},
		{name: "not an email", email: "admin", password: "pw", wantErr: service.ErrInvalidCredentials},
		{name: "password past bcrypt limit", email: "a@b.com", password: strings.Repeat("p", 80), wantErr: service.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := auth.Authenticate(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, created.ID, user.ID)
			assert.Equal(t, "a@b.com", user.Email)
		})
	}
}

func TestAuthService_SessionRoundTrip(t *testing.T) {
	codecs := map[string]session.Codec{
		"plain":  session.PlainCodec{},
		"signed": session.NewJWTCodec("test-secret", time.Hour),
	}

	for name, codec := range codecs {
		t.Run(name, func(t *testing.T) {
			auth := newAuthService(t, codec)
			ctx := context.Background()

			user, err := auth.Signup(ctx, service.SignupInput{Email: "a@b.com", Password: "pw"})
			require.NoError(t, err)

			value, err := auth.IssueSession(user)
			require.NoError(t, err)

			resolved, err := auth.ResolveSession(ctx, value)
			require.NoError(t, err)
			assert.Equal(t, user.ID, resolved.ID)
			assert.Equal(t, user.Email, resolved.Email)
		})
	}
}

func TestAuthService_ResolveSession_Anonymous(t *testing.T) {
	auth := newAuthService(t, session.PlainCodec{})
	ctx := context.Background()

	tests := []struct {
		name    string
		value   string
		wantErr error
	}{
		{name: "id without user", value: "42", wantErr: domain.ErrUserNotFound},
		{name: "not a number", value: "abc", wantErr: session.ErrInvalidSession},
		{name: "negative id", value: "-1", wantErr: session.ErrInvalidSession},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := auth.ResolveSession(ctx, tt.value)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, user)
		})
	}
}

func TestAuthService_SessionMaxAge(t *testing.T) {
	assert.Zero(t, newAuthService(t, session.PlainCodec{}).SessionMaxAge())
	assert.Equal(t, time.Hour, newAuthService(t, session.NewJWTCodec("s", time.Hour)).SessionMaxAge())
}
