package handlers

import (
	"errors"
	"net/http"
	"strings"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/lauzhack/pictorial/internal/api/middleware"
	"github.com/lauzhack/pictorial/internal/service"
	"github.com/lauzhack/pictorial/internal/web"
	"go.uber.org/zap"
)

// GenerationHandler serves the protected generate and library pages. The
// router mounts it behind middleware.RequireUser.
type GenerationHandler struct {
	generationService *service.GenerationService
	views             *web.Renderer
	logs              *zap.SugaredLogger
}

func NewGenerationHandler(generationService *service.GenerationService, views *web.Renderer, logs *zap.SugaredLogger) *GenerationHandler {
	return &GenerationHandler{
		generationService: generationService,
		views:             views,
		logs:              logs,
	}
}

func (h *GenerationHandler) View(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "generate.html", page{User: middleware.UserFromContext(r.Context())})
}

func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	form := PromptForm{Prompt: strings.TrimSpace(r.PostForm.Get("prompt"))}
	if err := validate.Struct(form); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	view, err := h.generationService.Generate(r.Context(), user.ID, form.Prompt)
	if err != nil {
		h.logs.Errorw("generation failed",
			"handler", "generate",
			"user_id", user.ID,
			"error", err,
			"request_id", chiMiddleware.GetReqID(r.Context()))
		if errors.Is(err, service.ErrGenerationFailed) {
			http.Error(w, "Image generation failed", http.StatusBadGateway)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.render(w, r, http.StatusOK, "_generation.html", view)
}

func (h *GenerationHandler) Library(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	views, err := h.generationService.Library(r.Context(), user.ID)
	if err != nil {
		h.logs.Errorw("library failed", "handler", "library", "error", err, "request_id", chiMiddleware.GetReqID(r.Context()))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.render(w, r, http.StatusOK, "library.html", page{User: user, Generations: views})
}

func (h *GenerationHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if err := h.views.Render(w, status, name, data); err != nil {
		h.logs.Errorw("render failed", "template", name, "error", err, "request_id", chiMiddleware.GetReqID(r.Context()))
	}
}
