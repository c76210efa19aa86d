package handlers

import (
	"errors"
	"net/http"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/lauzhack/pictorial/internal/api/middleware"
	"github.com/lauzhack/pictorial/internal/domain"
	"github.com/lauzhack/pictorial/internal/service"
	"github.com/lauzhack/pictorial/internal/session"
	"github.com/lauzhack/pictorial/internal/web"
	"go.uber.org/zap"
)

// MainHandler serves the home page and the signup/login/logout flow.
type MainHandler struct {
	authService   *service.AuthService
	views         *web.Renderer
	logs          *zap.SugaredLogger
	secureCookies bool
}

func NewMainHandler(authService *service.AuthService, views *web.Renderer, logs *zap.SugaredLogger, secureCookies bool) *MainHandler {
	return &MainHandler{
		authService:   authService,
		views:         views,
		logs:          logs,
		secureCookies: secureCookies,
	}
}

func (h *MainHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "home.html", page{User: middleware.UserFromContext(r.Context())})
}

func (h *MainHandler) LoginView(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login.html", page{User: middleware.UserFromContext(r.Context())})
}

func (h *MainHandler) Login(w http.ResponseWriter, r *http.Request) {
	form, err := parseLogin(r)
	if err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	user, err := h.authService.Authenticate(r.Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			middleware.RecordAuthAttempt("login", false)
			http.Error(w, "Invalid Credentials", http.StatusUnauthorized)
			return
		}
		h.fail(w, r, "login", err)
		return
	}

	value, err := h.authService.IssueSession(user)
	if err != nil {
		h.fail(w, r, "login", err)
		return
	}

	middleware.RecordAuthAttempt("login", true)
	http.SetCookie(w, session.NewCookie(value, h.authService.SessionMaxAge(), h.secureCookies))
	redirect(w, r, "/")
}

// Logout only deletes the cookie; sessions are stateless, so a copied cookie
// value stays valid.
func (h *MainHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, session.ExpiredCookie(h.secureCookies))
	redirect(w, r, "/")
}

func (h *MainHandler) SignupView(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "signup.html", page{User: middleware.UserFromContext(r.Context())})
}

func (h *MainHandler) Signup(w http.ResponseWriter, r *http.Request) {
	form, err := parseSignup(r)
	if err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	user, err := h.authService.Signup(r.Context(), service.SignupInput{
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			middleware.RecordAuthAttempt("signup", false)
			h.render(w, r, http.StatusConflict, "signup.html", page{
				User:  middleware.UserFromContext(r.Context()),
				Email: form.Email,
				Error: "An account with this email already exists",
			})
			return
		}
		if errors.Is(err, service.ErrPasswordTooLong) {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		h.fail(w, r, "signup", err)
		return
	}

	middleware.RecordAuthAttempt("signup", true)
	h.logs.Infow("user signed up", "user_id", user.ID, "request_id", chiMiddleware.GetReqID(r.Context()))
	redirect(w, r, "/login")
}

func (h *MainHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if err := h.views.Render(w, status, name, data); err != nil {
		h.logs.Errorw("render failed", "template", name, "error", err, "request_id", chiMiddleware.GetReqID(r.Context()))
	}
}

func (h *MainHandler) fail(w http.ResponseWriter, r *http.Request, handler string, err error) {
	h.logs.Errorw("request failed", "handler", handler, "error", err, "request_id", chiMiddleware.GetReqID(r.Context()))
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
