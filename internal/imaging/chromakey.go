// Package imaging implements the green-screen chroma-key filter applied to
// generated images.
package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/tjfontaine/polyglot-media-gateway/internal/storage"
)

const (
	minGreen       = 100
	dominanceRatio = 1.4
)

// Keyed reports whether a pixel belongs to the green backdrop.
func Keyed(r, g, b uint8) bool {
	gf := float64(g)
	return g > minGreen && gf > float64(r)*dominanceRatio && gf > float64(b)*dominanceRatio
}

// ChromaKey returns a copy of img with backdrop pixels made fully transparent.
func ChromaKey(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	out := image.NewNRGBA(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)

	for i := 0; i+3 < len(out.Pix); i += 4 {
		if Keyed(out.Pix[i], out.Pix[i+1], out.Pix[i+2]) {
			out.Pix[i+3] = 0
		}
	}
	return out
}

// ChromaKeyFile filters the image at path and writes a PNG sibling with a
// ".transparent" suffix, returning its path.
func ChromaKeyFile(ctx context.Context, store storage.MediaStore, path string) (string, error) {
	data, err := storage.ReadAll(ctx, store, path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", path, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, ChromaKey(img)); err != nil {
		return "", fmt.Errorf("encode %s: %w", path, err)
	}

	out := storage.TransparentPath(strings.TrimSuffix(path, filepath.Ext(path)) + ".png")
	if err := store.Write(ctx, out, buf.Bytes()); err != nil {
		return "", err
	}
	return out, nil
}

// ChromaKeyFiles filters every path concurrently. The returned slice is
// index-aligned with paths.
func ChromaKeyFiles(ctx context.Context, store storage.MediaStore, paths []string) ([]string, error) {
	out := make([]string, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			keyed, err := ChromaKeyFile(ctx, store, p)
			if err != nil {
				return err
			}
			out[i] = keyed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
