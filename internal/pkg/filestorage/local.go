package filestorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/yigit/deptportal/internal/pkg/logger"
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // The root directory where files will be stored
	baseURL  string // URL prefix the directory is served under, e.g. /uploads
}

// NewLocalStorage creates a new LocalStorage instance.
// basePath is the required directory path on the server.
// baseURL defaults to /uploads.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	// Ensure the base directory exists
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Debug().Str("path", basePath).Msg("Local storage directory ensured")

	if baseURL == "" {
		baseURL = "/uploads"
	}
	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// cleanSubPath rejects traversal outside basePath.
func cleanSubPath(subPath string) (string, error) {
	if subPath == "" {
		return "", nil
	}
	cleaned := path.Clean("/" + filepath.ToSlash(subPath))[1:]
	if cleaned == "" || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("invalid storage path %q", subPath)
	}
	return cleaned, nil
}

// Save writes r to basePath/subPath/filename.
func (ls *LocalStorage) Save(ctx context.Context, subPath, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	// Validate target directory and file name
	sub, err := cleanSubPath(subPath)
	if err != nil {
		return "", err
	}
	filename = filepath.Base(filename) // Drop any directory part
	if filename == "." || filename == string(filepath.Separator) {
		return "", fmt.Errorf("invalid file name %q", filename)
	}

	// Create the subdirectory if it doesn't exist
	fullDirPath := filepath.Join(ls.basePath, filepath.FromSlash(sub))
	if err := os.MkdirAll(fullDirPath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", fullDirPath).Msg("Failed to create subdirectory")
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	// Create the destination file
	dstPath := filepath.Join(fullDirPath, filename)
	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}

	// Copy the content, removing the partial file on failure
	if _, err = io.Copy(dst, r); err != nil {
		dst.Close()
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}
	if err = dst.Close(); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	// Construct the public URL
	url := ls.baseURL + "/" + filename
	if sub != "" {
		url = ls.baseURL + "/" + sub + "/" + filename
	}
	logger.Info().Str("saved_as", dstPath).Str("url", url).Msg("File saved successfully")
	return url, nil
}

// GetFullPath maps a URL returned by Save back to the file on disk.
func (ls *LocalStorage) GetFullPath(fileURL string) string {
	rel, ok := strings.CutPrefix(fileURL, ls.baseURL+"/")
	if !ok {
		return ""
	}
	sub, err := cleanSubPath(rel)
	if err != nil || sub == "" {
		return ""
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(sub))
}

// DeleteFile removes a stored file. Missing files count as deleted.
func (ls *LocalStorage) DeleteFile(fileURL string) error {
	if fileURL == "" {
		return nil
	}
	physicalPath := ls.GetFullPath(fileURL)
	if physicalPath == "" {
		return fmt.Errorf("invalid file path: %s", fileURL)
	}

	// Check if file exists before attempting deletion
	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}
