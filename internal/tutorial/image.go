package tutorial

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	MinResizePercent = 1
	MaxResizePercent = 200

	maxImageBytes = 20 << 20
	// MaxImagePixels bounds both the decoded source and the resized output.
	MaxImagePixels = 24_000_000
)

var (
	ErrNotImage         = errors.New("url does not point to an image")
	ErrUnsupportedImage = errors.New("unsupported image format")
	ErrInvalidScale     = errors.New("resize percent out of range")
	ErrImageTooLarge    = errors.New("image dimensions too large")
)

// ImageFetcher downloads images from user supplied URLs.
type ImageFetcher struct {
	client *http.Client
}

func NewImageFetcher(timeout time.Duration) *ImageFetcher {
	return &ImageFetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch downloads rawURL and returns its body and content type. Anything that
// is not a successful http(s) response with an image/* content type yields
// ErrNotImage.
func (f *ImageFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, "", ErrNotImage
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", ErrNotImage
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(contentType, "image/") {
		return nil, "", ErrNotImage
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	return data, contentType, nil
}

// IsImage reports whether rawURL serves an image.
func (f *ImageFetcher) IsImage(ctx context.Context, rawURL string) bool {
	_, _, err := f.Fetch(ctx, rawURL)
	return err == nil
}

// Resize scales both dimensions of the encoded image by percent/100 and
// returns it JPEG encoded.
func Resize(data []byte, percent int) ([]byte, error) {
	if percent < MinResizePercent || percent > MaxResizePercent {
		return nil, ErrInvalidScale
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	width := max(cfg.Width*percent/100, 1)
	height := max(cfg.Height*percent/100, 1)
	if tooLarge(cfg.Width, cfg.Height) || tooLarge(width, height) {
		return nil, fmt.Errorf("%w: %dx%d at %d%%", ErrImageTooLarge, cfg.Width, cfg.Height, percent)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	bounds := src.Bounds()

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func tooLarge(width, height int) bool {
	return width <= 0 || height <= 0 || int64(width)*int64(height) > MaxImagePixels
}

func DataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
