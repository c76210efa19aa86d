package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layout.html":  {Data: []byte(`<html>{{block "content" .}}{{end}}</html>`)},
		"page.html":    {Data: []byte(`{{define "content"}}<p>{{.Name}}</p>{{template "_item.html" .}}{{end}}`)},
		"_item.html":   {Data: []byte(`<i>{{.Name}}</i>`)},
		"_broken.html": {Data: []byte(`{{.Missing.Field}}`)},
		"notes.txt":    {Data: []byte(`ignored`)},
	}
}

func TestRenderer_Render(t *testing.T) {
	r, err := NewRenderer(testFS())
	require.NoError(t, err)

	data := struct{ Name string }{Name: "<b>ada</b>"}

	tests := []struct {
		name     string
		template string
		status   int
		wantCode int
		wantBody string
	}{
		{
			name:     "page is wrapped in layout",
			template: "page.html",
			status:   http.StatusOK,
			wantCode: http.StatusOK,
			wantBody: "<html><p>&lt;b&gt;ada&lt;/b&gt;</p><i>&lt;b&gt;ada&lt;/b&gt;</i></html>",
		},
		{
			name:     "fragment renders alone",
			template: "_item.html",
			status:   http.StatusConflict,
			wantCode: http.StatusConflict,
			wantBody: "<i>&lt;b&gt;ada&lt;/b&gt;</i>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			require.NoError(t, r.Render(rec, tt.status, tt.template, data))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		})
	}
}

func TestRenderer_Errors(t *testing.T) {
	r, err := NewRenderer(testFS())
	require.NoError(t, err)

	t.Run("unknown template", func(t *testing.T) {
		rec := httptest.NewRecorder()
		err := r.Render(rec, http.StatusOK, "nope.html", nil)
		assert.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("execution failure writes nothing partial", func(t *testing.T) {
		rec := httptest.NewRecorder()
		err := r.Render(rec, http.StatusOK, "_broken.html", struct{ Name string }{})
		assert.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Internal server error\n", rec.Body.String())
	})
}

func TestNewRenderer_MissingLayout(t *testing.T) {
	_, err := NewRenderer(fstest.MapFS{
		"page.html": {Data: []byte(`{{define "content"}}x{{end}}`)},
	})
	assert.Error(t, err)
}

func TestEmbeddedTemplatesParse(t *testing.T) {
	for _, app := range []string{AppPictorial, AppTutorial} {
		t.Run(app, func(t *testing.T) {
			fsys, err := Templates(app)
			require.NoError(t, err)

			_, err = NewRenderer(fsys)
			require.NoError(t, err)
		})
	}
}

func TestEmbeddedFragments(t *testing.T) {
	type generation struct {
		Prompt    string
		CreatedAt time.Time
	}
	type generationView struct {
		Generation generation
		ImageURL   string
	}
	type quote struct {
		Name   string
		Price  float64
		Change float64
	}
	type client struct {
		Name, Email, City, Country, Phone string
		Age                               int
	}

	tests := []struct {
		app      string
		name     string
		data     any
		contains string
	}{
		{
			app:  AppPictorial,
			name: "_generation.html",
			data: generationView{
				Generation: generation{Prompt: "a red fox", CreatedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)},
				ImageURL:   "/static/images/x.png",
			},
			contains: `<img src="/static/images/x.png" alt="a red fox"`,
		},
		{
			app:  AppPictorial,
			name: "library.html",
			data: struct {
				User        any
				Generations []generationView
			}{Generations: []generationView{{generation{Prompt: "a red fox"}, "/static/images/x.png"}}},
			contains: "<figcaption>a red fox",
		},
		{
			app:      AppTutorial,
			name:     "_quote.html",
			data:     quote{Name: "Acme", Price: 12.5, Change: -1.25},
			contains: `<span class="down">-1.25</span>`,
		},
		{
			app:      AppTutorial,
			name:     "_quote-stream.html",
			data:     quote{Name: "Acme", Price: 12.5, Change: 2},
			contains: `<div id="quote-stream" hx-swap-oob="innerHTML">`,
		},
		{
			app:      AppTutorial,
			name:     "_clients.html",
			data:     struct{ Clients []client }{[]client{{Name: "Ada", Age: 36}}},
			contains: "<tr><td>Ada</td><td>36</td>",
		},
		{
			app:      AppTutorial,
			name:     "_size-preview.html",
			data:     struct{ Size int }{150},
			contains: "150%",
		},
		{
			app:  AppTutorial,
			name: "_image-preview.html",
			data: struct {
				URL   string
				Error bool
			}{Error: true},
			contains: "That URL does not point to an image.",
		},
		{
			app:      AppTutorial,
			name:     "_resize-output.html",
			data:     struct{ URL string }{"data:image/jpeg;base64,AAAA"},
			contains: `src="data:image/jpeg;base64,AAAA"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.app+"/"+tt.name, func(t *testing.T) {
			fsys, err := Templates(tt.app)
			require.NoError(t, err)
			r, err := NewRenderer(fsys)
			require.NoError(t, err)

			buf, err := r.Execute(tt.name, tt.data)
			require.NoError(t, err)
			assert.Contains(t, buf.String(), tt.contains)
		})
	}
}

func TestStatic(t *testing.T) {
	f, err := Static().Open("css/app.css")
	require.NoError(t, err)
	require.NoError(t, f.Close())
}
