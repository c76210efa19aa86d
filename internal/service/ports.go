package service

import "context"

// ImageGenerator turns a prompt into a base64 encoded image.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ImageStore persists generated images. Save returns the id the image is
// stored under and its storage path; URL resolves an id to something a
// browser can load.
type ImageStore interface {
	Save(ctx context.Context, data []byte) (id string, path string, err error)
	URL(ctx context.Context, id string) (string, error)
	Delete(ctx context.Context, id string) error
}
