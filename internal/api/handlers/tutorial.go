package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/lauzhack/pictorial/internal/tutorial"
	"github.com/lauzhack/pictorial/internal/web"
	"go.uber.org/zap"
)

// TutorialHandler serves the three htmx demos.
type TutorialHandler struct {
	views   *web.Renderer
	faker   *tutorial.Faker
	clients []tutorial.Client
	fetcher *tutorial.ImageFetcher
	logs    *zap.SugaredLogger
}

func NewTutorialHandler(views *web.Renderer, faker *tutorial.Faker, fetcher *tutorial.ImageFetcher, logs *zap.SugaredLogger) *TutorialHandler {
	return &TutorialHandler{
		views:   views,
		faker:   faker,
		clients: faker.Clients(tutorial.ClientCount),
		fetcher: fetcher,
		logs:    logs,
	}
}

func (h *TutorialHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "index.html", nil)
}

// Live data

func (h *TutorialHandler) LiveDataView(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "live-data.html", nil)
}

func (h *TutorialHandler) LiveData(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "_quote.html", h.faker.Quote())
}

// Form submission

type sizePreview struct {
	Size int
}

type imagePreview struct {
	URL   string
	Error bool
}

type resizeOutput struct {
	URL string
}

func (h *TutorialHandler) FormView(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "form-submission.html", sizePreview{Size: 100})
}

func (h *TutorialHandler) PreviewSize(w http.ResponseWriter, r *http.Request) {
	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil {
		http.Error(w, "Invalid size", http.StatusBadRequest)
		return
	}
	h.render(w, r, http.StatusOK, "_size-preview.html", sizePreview{Size: size})
}

func (h *TutorialHandler) PreviewImage(w http.ResponseWriter, r *http.Request) {
	url := strings.TrimSpace(r.URL.Query().Get("url"))
	if url == "" || !h.fetcher.IsImage(r.Context(), url) {
		h.render(w, r, http.StatusOK, "_image-preview.html", imagePreview{Error: true})
		return
	}
	h.render(w, r, http.StatusOK, "_image-preview.html", imagePreview{URL: url})
}

func (h *TutorialHandler) Resize(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(r.PostForm.Get("size"))
	if err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	form := ResizeForm{URL: strings.TrimSpace(r.PostForm.Get("url")), Size: size}
	if err := validate.Struct(form); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	data, _, err := h.fetcher.Fetch(r.Context(), form.URL)
	if err != nil {
		if errors.Is(err, tutorial.ErrNotImage) {
			http.Error(w, "Invalid image URL", http.StatusBadRequest)
			return
		}
		h.fail(w, r, "resize", err)
		return
	}

	resized, err := tutorial.Resize(data, form.Size)
	if err != nil {
		if errors.Is(err, tutorial.ErrUnsupportedImage) {
			http.Error(w, "Unsupported image format", http.StatusUnsupportedMediaType)
			return
		}
		if errors.Is(err, tutorial.ErrImageTooLarge) {
			http.Error(w, "Image too large", http.StatusBadRequest)
			return
		}
		h.fail(w, r, "resize", err)
		return
	}

	h.render(w, r, http.StatusOK, "_resize-output.html", resizeOutput{URL: tutorial.DataURL("image/jpeg", resized)})
}

// Filtering and sorting

type clientTable struct {
	Clients []tutorial.Client
}

func (h *TutorialHandler) ClientsView(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "filtering-sorting.html", clientTable{Clients: h.clients})
}

func (h *TutorialHandler) ProcessClients(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	clients, err := tutorial.FilterAndSort(h.clients, query.Get("filter"), query.Get("sort"))
	if err != nil {
		http.Error(w, "Invalid sort field", http.StatusBadRequest)
		return
	}
	h.render(w, r, http.StatusOK, "_clients.html", clientTable{Clients: clients})
}

func (h *TutorialHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if err := h.views.Render(w, status, name, data); err != nil {
		h.logs.Errorw("render failed", "template", name, "error", err, "request_id", chiMiddleware.GetReqID(r.Context()))
	}
}

func (h *TutorialHandler) fail(w http.ResponseWriter, r *http.Request, handler string, err error) {
	h.logs.Errorw("request failed", "handler", handler, "error", err, "request_id", chiMiddleware.GetReqID(r.Context()))
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
