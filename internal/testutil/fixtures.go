package testutil

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lauzhack/pictorial/internal/domain"
	"github.com/lauzhack/pictorial/internal/session"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	email    string
	password string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		email:    fmt.Sprintf("user_%s@example.com", uuid.New().String()[:8]),
		password: "testpassword123",
	}
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		Email:        strings.ToLower(b.email),
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// BuildAndLogin creates the user and logs it in through POST /login,
// returning the session cookie the server set.
func (b *UserBuilder) BuildAndLogin(t *testing.T, ts *TestServer) (*domain.User, *http.Cookie) {
	t.Helper()

	user, password := b.Build(t, ts.DB.DB)
	return user, Login(t, ts, user.Email, password)
}

// Login posts the credentials and returns the session cookie
func Login(t *testing.T, ts *TestServer, email, password string) *http.Cookie {
	t.Helper()

	resp, err := ts.Client().PostForm(ts.URL("/login"), url.Values{
		"email":    {email},
		"password": {password},
	})
	if err != nil {
		t.Fatalf("failed to log in: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("unexpected login status code: %d", resp.StatusCode)
	}

	cookie := SessionCookie(resp)
	if cookie == nil {
		t.Fatalf("login did not set %s", session.CookieName)
	}
	return cookie
}

// CreateGeneration inserts a generation row directly
func CreateGeneration(t *testing.T, db *gorm.DB, userID int64, prompt string) *domain.Generation {
	t.Helper()

	generation := &domain.Generation{
		UserID:    userID,
		ImageID:   uuid.New().String() + ".png",
		Prompt:    prompt,
		CreatedAt: time.Now(),
	}
	if err := db.Create(generation).Error; err != nil {
		t.Fatalf("failed to create generation: %v", err)
	}
	return generation
}

// SessionCookie returns the session cookie set by resp, or nil
func SessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}
