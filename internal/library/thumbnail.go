package library

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Thumbnail decodes the image at path and returns a JPEG that fits in a
// size x size square. Images already small enough are re-encoded as is. A
// file that no longer exists yields nil data and no error.
func Thumbnail(path string, size int) ([]byte, error) {
	if size < 1 {
		return nil, fmt.Errorf("thumbnail size must be positive: %d", size)
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug().Str("path", path).Msg("Thumbnail source missing")
			return nil, nil
		}
		return nil, fmt.Errorf("open thumbnail source: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode thumbnail source: %w", err)
	}

	bounds := img.Bounds()
	width, height := fitWithin(bounds.Dx(), bounds.Dy(), size)
	out := img
	if width != bounds.Dx() || height != bounds.Dy() {
		resized := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)
		out = resized
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: 80}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}

	log.Debug().
		Str("path", path).
		Int("orig_width", bounds.Dx()).
		Int("orig_height", bounds.Dy()).
		Int("width", width).
		Int("height", height).
		Int("output_size", buf.Len()).
		Msg("Thumbnail generated")
	return buf.Bytes(), nil
}

// fitWithin scales width x height down to fit max on its longest side,
// keeping the aspect ratio. It never scales up.
func fitWithin(width, height, max int) (int, int) {
	if width <= max && height <= max {
		return width, height
	}
	if width >= height {
		h := height * max / width
		if h < 1 {
			h = 1
		}
		return max, h
	}
	w := width * max / height
	if w < 1 {
		w = 1
	}
	return w, max
}
