package media

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lectern/internal/config"
	"lectern/internal/logging"
)

var supportedMediaExtensions = map[string]struct{}{
	".mp4": {}, ".avi": {}, ".mov": {}, ".mkv": {}, ".flv": {},
	".wmv": {}, ".webm": {}, ".m4v": {}, ".3gp": {}, ".ogv": {},
	".mp3": {}, ".wav": {}, ".m4a": {}, ".flac": {}, ".ogg": {}, ".aac": {},
}

// downloadFormat prefers modest mp4 renditions; audio is all the pipeline
// keeps anyway.
const downloadFormat = "best[height<=720][ext=mp4]/best[height<=720]/best[ext=mp4]/best"

// IsSupportedMedia reports whether the path carries a media extension the
// pipeline can extract audio from.
func IsSupportedMedia(path string) bool {
	_, ok := supportedMediaExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// IsDocument reports whether the path is a document input.
func IsDocument(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// Acquirer obtains job inputs: it validates local files and downloads remote
// URLs through a yt-dlp style tool.
type Acquirer struct {
	downloader string
	timeout    time.Duration
	runner     CommandRunner
	logger     *slog.Logger
}

// NewAcquirer builds an acquirer from the tools configuration.
func NewAcquirer(cfg *config.Config, logger *slog.Logger) *Acquirer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Acquirer{
		downloader: cfg.Tools.DownloaderBinary,
		timeout:    time.Duration(cfg.Tools.DownloadTimeout) * time.Second,
		runner:     runCommand,
		logger:     logger,
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (a *Acquirer) WithCommandRunner(runner CommandRunner) {
	if runner != nil {
		a.runner = runner
	}
}

// ValidateLocal checks that a local input exists, is a regular non-empty
// file, and carries a usable extension. Document inputs accept PDFs, media
// inputs the media extension set.
func (a *Acquirer) ValidateLocal(path string, document bool) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("input file %s does not exist", path)
		}
		return fmt.Errorf("stat input: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("input %s is a directory", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("input file %s is empty", path)
	}

	if document {
		if !IsDocument(path) {
			return fmt.Errorf("unsupported document format %q", filepath.Ext(path))
		}
		return nil
	}
	if !IsSupportedMedia(path) {
		return fmt.Errorf("unsupported media format %q", filepath.Ext(path))
	}
	return nil
}

// Download fetches a remote URL into destDir and returns the downloaded
// file's path. destDir must be private to the job: the produced file is
// found by scanning it.
func (a *Acquirer) Download(ctx context.Context, url, destDir string) (string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", fmt.Errorf("download: empty url")
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("ensure download dir: %w", err)
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	args := []string{
		"--no-playlist",
		"--format", downloadFormat,
		"--output", filepath.Join(destDir, "%(title)s.%(ext)s"),
		url,
	}
	a.logger.Info("downloading media",
		logging.String("url", url),
		logging.String("tool", a.downloader))
	if _, err := a.runner(ctx, a.downloader, args...); err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}

	downloaded, err := newestFile(destDir)
	if err != nil {
		return "", fmt.Errorf("locate download: %w", err)
	}
	return downloaded, nil
}

// newestFile returns the most recently modified regular file in dir,
// skipping hidden files and downloader scratch files.
func newestFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var (
		newest     string
		newestTime time.Time
	)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".part") || strings.HasSuffix(name, ".ytdl") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestTime) {
			newest = name
			newestTime = info.ModTime()
		}
	}
	if newest == "" {
		return "", fmt.Errorf("no output file in %s", dir)
	}
	return filepath.Join(dir, newest), nil
}
