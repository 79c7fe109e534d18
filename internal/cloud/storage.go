// Package cloud copies backup files to a Google Cloud Storage bucket.
// Bucket sync is the one remote operation in the system, so it is also the
// only place with retries: a fixed number of attempts, then the final
// failure is surfaced to the caller.
package cloud

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"cloud.google.com/go/storage"
)

const (
	maxAttempts  = 3
	retryBackoff = 2 * time.Second
)

// Manager uploads and downloads blobs in one bucket under a fixed prefix.
type Manager struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewManager connects to the bucket using ambient credentials.
func NewManager(ctx context.Context, bucket, prefix string) (*Manager, error) {
	if bucket == "" {
		return nil, fmt.Errorf("cloud: bucket name is required")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("cloud: create client: %w", err)
	}
	return &Manager{client: client, bucket: bucket, prefix: prefix}, nil
}

// Close releases the underlying client.
func (m *Manager) Close() error {
	return m.client.Close()
}

func (m *Manager) object(name string) *storage.ObjectHandle {
	return m.client.Bucket(m.bucket).Object(path.Join(m.prefix, name))
}

// withRetry runs fn up to maxAttempts times, backing off between attempts.
func withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt < maxAttempts {
			select {
			case <-time.After(retryBackoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("cloud: giving up after %d attempts: %w", maxAttempts, err)
}

// UploadFile copies a local file to the bucket.
func (m *Manager) UploadFile(ctx context.Context, localPath, name string) error {
	return withRetry(ctx, func() error {
		f, err := os.Open(localPath)
		if err != nil {
			return fmt.Errorf("open %s: %w", localPath, err)
		}
		defer f.Close()

		w := m.object(name).NewWriter(ctx)
		if _, err := io.Copy(w, f); err != nil {
			_ = w.Close()
			return fmt.Errorf("upload %s: %w", name, err)
		}
		return w.Close()
	})
}

// DownloadFile copies a blob from the bucket to a local file.
func (m *Manager) DownloadFile(ctx context.Context, name, localPath string) error {
	return withRetry(ctx, func() error {
		r, err := m.object(name).NewReader(ctx)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		defer r.Close()

		f, err := os.Create(localPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", localPath, err)
		}
		defer f.Close()

		_, err = io.Copy(f, r)
		return err
	})
}

// Exists reports whether a blob is present in the bucket.
func (m *Manager) Exists(ctx context.Context, name string) (bool, error) {
	_, err := m.object(name).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cloud: stat %s: %w", name, err)
	}
	return true, nil
}
