// Package download fetches mod archives from GameBanana and installs
// them through a strictly serialized queue, so that two concurrent
// downloads can never race on pak slot allocation.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"dmm/internal/domain"
)

// Progress represents the current state of a download.
type Progress struct {
	TotalBytes int64 // total size in bytes (0 if unknown)
	Downloaded int64
	Percentage float64 // 0-100, stays 0 when the total is unknown
}

// ProgressFunc is called periodically during download with progress updates.
type ProgressFunc func(Progress)

// Downloader streams remote files to disk with progress tracking.
type Downloader struct {
	httpClient *http.Client
}

// NewDownloader creates a Downloader. If httpClient is nil, a client
// with a bounded overall timeout is used; redirects are followed by
// default, which GameBanana's CDN links require.
func NewDownloader(httpClient *http.Client) *Downloader {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Minute}
	}
	return &Downloader{httpClient: httpClient}
}

// Download fetches url and writes it to destPath. The payload streams
// into a sibling .part file that is renamed into place only on success,
// so a failed download never leaves a partial file behind.
func (d *Downloader) Download(ctx context.Context, url, destPath string, progressFn ProgressFunc) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: creating request: %v", domain.ErrDownloadFailed, err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: HTTP %d %s", domain.ErrDownloadFailed, resp.StatusCode, resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return 0, fmt.Errorf("%w: creating directory: %v", domain.ErrDownloadFailed, err)
	}

	partPath := destPath + ".part"
	file, err := os.Create(partPath)
	if err != nil {
		return 0, fmt.Errorf("%w: creating file: %v", domain.ErrDownloadFailed, err)
	}
	defer func() {
		file.Close()
		os.Remove(partPath)
	}()

	reader := &progressReader{
		reader:     resp.Body,
		totalBytes: resp.ContentLength,
		progressFn: progressFn,
	}

	written, err := io.Copy(file, reader)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrDownloadFailed, err)
	}
	if err := file.Close(); err != nil {
		return 0, fmt.Errorf("%w: closing file: %v", domain.ErrDownloadFailed, err)
	}
	if err := os.Rename(partPath, destPath); err != nil {
		return 0, fmt.Errorf("%w: renaming file: %v", domain.ErrDownloadFailed, err)
	}
	return written, nil
}

// progressReader wraps an io.Reader to report download progress.
type progressReader struct {
	reader     io.Reader
	totalBytes int64
	downloaded int64
	progressFn ProgressFunc
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.downloaded += int64(n)
		if r.progressFn != nil {
			progress := Progress{
				TotalBytes: r.totalBytes,
				Downloaded: r.downloaded,
			}
			if r.totalBytes > 0 {
				progress.Percentage = float64(r.downloaded) / float64(r.totalBytes) * 100
			}
			r.progressFn(progress)
		}
	}
	return n, err
}
