package uploads

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Disk writes photos to a directory served as static files.
type Disk struct {
	// Dir is the directory photos are written to.
	Dir string

	// BaseURL is the public path prefix the directory is served under,
	// e.g. "/uploads".
	BaseURL string
}

// NewDisk creates a disk sink, creating the directory if needed.
func NewDisk(dir, baseURL string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &Disk{Dir: dir, BaseURL: baseURL}, nil
}

// Store writes the photo under a timestamped name. A random suffix keeps
// two photos uploaded in the same millisecond from colliding; the original
// name only contributes its extension.
func (d *Disk) Store(ctx context.Context, data []byte, originalName string) (string, error) {
	name := fmt.Sprintf("%d_%s%s",
		time.Now().UnixMilli(),
		uuid.NewString()[:8],
		filepath.Ext(originalName),
	)

	if err := os.WriteFile(filepath.Join(d.Dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("%w: writing photo: %v", ErrUploadFailed, err)
	}

	return path.Join(d.BaseURL, name), nil
}
