package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
)

// Placeholder draws a deterministic gradient derived from the prompt. It
// stands in for the real API when no key is configured.
type Placeholder struct {
	Size int
}

func (p Placeholder) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	size := p.Size
	if size < 2 {
		size = 256
	}

	h := fnv.New32a()
	h.Write([]byte(prompt))
	sum := h.Sum32()
	from := color.RGBA{R: uint8(sum), G: uint8(sum >> 8), B: uint8(sum >> 16), A: 255}
	to := color.RGBA{R: 255 - from.R, G: 255 - from.G, B: 255 - from.B, A: 255}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			t := (x + y) * 255 / (2 * (size - 1))
			img.Set(x, y, color.RGBA{
				R: blend(from.R, to.R, t),
				G: blend(from.G, to.G, t),
				B: blend(from.B, to.B, t),
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func blend(a, b uint8, t int) uint8 {
	return uint8((int(a)*(255-t) + int(b)*t) / 255)
}
