// Package uploads stores proof photos and hands back publicly retrievable
// URLs. Three interchangeable sinks exist: local disk for single-machine
// deployments, Dropbox matching the hosted deployment, and any
// S3-compatible object store.
package uploads

import (
	"context"
	"errors"
	"time"
)

// ErrUploadFailed wraps any transport or auth failure talking to the
// photo host. Callers treat it as an infrastructure error, not user input.
var ErrUploadFailed = errors.New("upload failed")

// Sink stores a photo's raw bytes and returns a URL it can be fetched from.
type Sink interface {
	Store(ctx context.Context, data []byte, originalName string) (string, error)
}

// RequestTimeout bounds each outbound call to a remote photo host.
const RequestTimeout = 30 * time.Second
