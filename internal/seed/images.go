package seed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// DownloadResult is the outcome for one image source.
type DownloadResult struct {
	Name string
	Path string
	Err  error
}

// ImageFileName derives the local file name from the source name and the
// extension of its URL, defaulting to .jpg.
func ImageFileName(src ImageSource) string {
	ext := strings.ToLower(path.Ext(src.URL))
	if ext == "" || len(ext) > 5 {
		ext = ".jpg"
	}
	return src.Name + ext
}

// DownloadImages fetches every source into dir. A failed download is
// logged and recorded in its result; the remaining images still run.
func DownloadImages(ctx context.Context, client *http.Client, images []ImageSource, dir string, lgr zerolog.Logger) ([]DownloadResult, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	if client == nil {
		client = http.DefaultClient
	}

	results := make([]DownloadResult, 0, len(images))
	for _, src := range images {
		dst := filepath.Join(dir, ImageFileName(src))
		err := downloadFile(ctx, client, src.URL, dst)
		if err != nil {
			lgr.Warn().Err(err).Str("name", src.Name).Str("url", src.URL).Msg("Image download failed")
		} else {
			lgr.Info().Str("name", src.Name).Str("path", dst).Msg("Downloaded image")
		}
		results = append(results, DownloadResult{Name: src.Name, Path: dst, Err: err})
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
	}
	return results, nil
}

func downloadFile(ctx context.Context, client *http.Client, url, dst string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	tmp := dst + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}
