package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/lauzhack/pictorial/internal/domain"
	"github.com/lauzhack/pictorial/internal/service"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// max counts runes; bcrypt limits passwords by bytes.
	if err := v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= limit
	}); err != nil {
		panic(err)
	}
	return v
}

// LoginForm only checks presence: any other mismatch is an invalid
// credential, not a malformed request.
type LoginForm struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

type SignupForm struct {
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,maxbytes=72"`
}

type PromptForm struct {
	Prompt string `validate:"required,max=1000"`
}

type ResizeForm struct {
	URL  string `validate:"required,url"`
	Size int    `validate:"gte=1,lte=200"`
}

// page is the data every pictorial page template receives.
type page struct {
	User        *domain.User
	Email       string
	Error       string
	Generations []service.GenerationView
}

// redirect answers with 303 See Other. htmx requests get 200 with
// HX-Redirect instead: their XHR would follow a 303 before htmx saw it.
func redirect(w http.ResponseWriter, r *http.Request, url string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func parseLogin(r *http.Request) (LoginForm, error) {
	if err := r.ParseForm(); err != nil {
		return LoginForm{}, err
	}
	form := LoginForm{
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
	}
	return form, validate.Struct(form)
}

func parseSignup(r *http.Request) (SignupForm, error) {
	if err := r.ParseForm(); err != nil {
		return SignupForm{}, err
	}
	form := SignupForm{
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
	}
	return form, validate.Struct(form)
}
