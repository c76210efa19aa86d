package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/lauzhack/pictorial/internal/domain"
	"github.com/lauzhack/pictorial/internal/session"
	"go.uber.org/zap"
)

type contextKey string

const (
	AuthKey contextKey = "auth"
)

const SchemeCookie = "cookie"

type SessionResolver interface {
	ResolveSession(ctx context.Context, value string) (*domain.User, error)
}

// AuthResult is the per-request authentication outcome. User is nil for
// anonymous requests.
type AuthResult struct {
	User   *domain.User
	Scheme string
}

func (a AuthResult) Authenticated() bool {
	return a.User != nil
}

// Authenticate resolves the session cookie into an AuthResult and stores it
// in the request context. It never fails the request: missing, undecodable or
// dangling sessions, and storage errors, all degrade to anonymous.
func Authenticate(resolver SessionResolver, logs *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result := AuthResult{Scheme: SchemeCookie}

			if cookie, err := r.Cookie(session.CookieName); err == nil && cookie.Value != "" {
				user, err := resolver.ResolveSession(r.Context(), cookie.Value)
				switch {
				case err == nil:
					result.User = user
				case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, session.ErrInvalidSession):
				default:
					logs.Warnw("session resolution failed, continuing as anonymous",
						"error", err,
						"request_id", middleware.GetReqID(r.Context()))
				}
			}

			next.ServeHTTP(w, r.WithContext(WithAuth(r.Context(), result)))
		})
	}
}

// RequireUser rejects anonymous requests with 401 before next runs.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithAuth(ctx context.Context, result AuthResult) context.Context {
	return context.WithValue(ctx, AuthKey, result)
}

func AuthFromContext(ctx context.Context) AuthResult {
	result, ok := ctx.Value(AuthKey).(AuthResult)
	if !ok {
		return AuthResult{Scheme: SchemeCookie}
	}
	return result
}

func UserFromContext(ctx context.Context) *domain.User {
	return AuthFromContext(ctx).User
}
