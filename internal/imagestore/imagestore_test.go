package imagestore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestLocal_SaveAndURL(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	store, err := NewLocal(dir, "/static/images/")
	require.NoError(t, err)

	id, path, err := store.Save(context.Background(), pngHeader)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(id, ".png"))
	assert.Equal(t, filepath.Join(dir, id), path)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, written)

	url, err := store.URL(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "/static/images/"+id, url)
}

func TestLocal_Delete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocal(dir, "/static/images")
	require.NoError(t, err)

	id, path, err := store.Save(context.Background(), pngHeader)
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), id))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "image file still present")

	assert.NoError(t, store.Delete(context.Background(), id), "deleting twice is fine")
	assert.Error(t, store.Delete(context.Background(), "../escape.png"))
}

func TestLocal_URLRejectsTraversal(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "/static/images")
	require.NoError(t, err)

	for _, id := range []string{"", "../secret", "a/b.png", `a\b.png`} {
		_, err := store.URL(context.Background(), id)
		assert.Error(t, err, id)
	}
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".png", extensionFor("image/png"))
	assert.Equal(t, ".jpg", extensionFor("image/jpeg"))
	assert.Equal(t, ".bin", extensionFor("text/plain; charset=utf-8"))
}

func TestS3_SaveAndURL(t *testing.T) {
	var (
		mu      sync.Mutex
		puts    = map[string][]byte{}
		deletes []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			mu.Lock()
			puts[r.URL.Path] = body
			mu.Unlock()
			w.Header().Set("ETag", `"etag"`)
			w.WriteHeader(http.StatusOK)
		case http.MethodDelete:
			mu.Lock()
			deletes = append(deletes, r.URL.Path)
			mu.Unlock()
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	defer server.Close()

	store, err := NewS3(context.Background(), S3Config{
		Bucket:       "pictures",
		Region:       "us-east-1",
		Endpoint:     server.URL,
		AccessKey:    "access",
		SecretKey:    "secret",
		UsePathStyle: true,
	})
	require.NoError(t, err)

	id, key, err := store.Save(context.Background(), pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "generations/"+id, key)

	mu.Lock()
	_, ok := puts["/pictures/"+key]
	mu.Unlock()
	assert.True(t, ok, "object was not uploaded to the bucket path")

	url, err := store.URL(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, server.URL+"/pictures/generations/"+id))
	assert.Contains(t, url, "X-Amz-Signature=")

	require.NoError(t, store.Delete(context.Background(), id))
	mu.Lock()
	assert.Equal(t, []string{"/pictures/" + key}, deletes)
	mu.Unlock()
}
