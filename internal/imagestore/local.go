package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Local keeps images in a directory that the router serves under urlPrefix.
type Local struct {
	dir       string
	urlPrefix string
}

func NewLocal(dir, urlPrefix string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image directory: %w", err)
	}
	return &Local{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

func (s *Local) Save(ctx context.Context, data []byte) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	id := newImageID(data)
	path := filepath.Join(s.dir, id)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", "", fmt.Errorf("write image: %w", err)
	}
	return id, path, nil
}

// Delete removes a stored image. Missing files are not an error.
func (s *Local) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateID(id); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

func (s *Local) URL(_ context.Context, id string) (string, error) {
	if err := validateID(id); err != nil {
		return "", err
	}
	return s.urlPrefix + "/" + id, nil
}

// newImageID is a random uuid carrying the extension of the sniffed type.
func newImageID(data []byte) string {
	return uuid.NewString() + extensionFor(http.DetectContentType(data))
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}

func validateID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return fmt.Errorf("invalid image id %q", id)
	}
	return nil
}
