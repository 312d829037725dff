// Package storage defines the media persistence port.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// MediaStore persists generated media and reads caller-supplied inputs.
type MediaStore interface {
	// Save writes data under dir with a generated {kind}_{millis}.{ext}
	// name and returns the path. Concurrent saves never share a path.
	Save(ctx context.Context, dir, kind, ext string, data []byte) (string, error)

	// Write stores data at an exact path, replacing any existing file.
	Write(ctx context.Context, path string, data []byte) error

	// Open returns a reader for the media at path.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// Media kinds used in generated file names.
const (
	KindSpeech = "tts"
	KindImage  = "image"
)

// DefaultDir is used when no output directory is configured.
const DefaultDir = "/tmp"

// FileName builds the generated name for kind at the given instant.
func FileName(kind string, millis int64, ext string) string {
	return fmt.Sprintf("%s_%d.%s", kind, millis, strings.TrimPrefix(ext, "."))
}

// TransparentPath inserts ".transparent" before the extension of path.
func TransparentPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".transparent" + ext
}

// ReadAll reads the whole media at path.
func ReadAll(ctx context.Context, s MediaStore, path string) ([]byte, error) {
	rc, err := s.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Clock returns the current time. Stores accept one for deterministic names.
type Clock func() time.Time
