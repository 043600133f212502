package filestorage

import (
	"context"
	"io"
)

// FileStorage defines the interface for blob storage operations
type FileStorage interface {
	// Save writes r under subPath/filename and returns a retrievable URL.
	Save(ctx context.Context, subPath, filename string, r io.Reader) (string, error)

	// DeleteFile removes a file by the URL Save returned
	DeleteFile(fileURL string) error

	// GetFullPath returns the full filesystem path for a given file URL
	GetFullPath(fileURL string) string
}
