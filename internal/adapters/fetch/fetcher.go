// Package fetch downloads package artifacts named by a catalog source URI.
package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/agentup/internal/core/ports"
	"go.trai.ch/zerr"
)

// Fetcher implements ports.Fetcher for http(s), file:// and plain paths.
type Fetcher struct {
	logger     ports.Logger
	httpClient *http.Client
}

// NewFetcher creates a new Fetcher.
func NewFetcher(logger ports.Logger) *Fetcher {
	return &Fetcher{
		logger:     logger,
		httpClient: &http.Client{},
	}
}

// newFetcherWithClient creates a Fetcher with a custom http client (used for testing).
func newFetcherWithClient(logger ports.Logger, client *http.Client) *Fetcher {
	return &Fetcher{
		logger:     logger,
		httpClient: client,
	}
}

// Fetch copies the artifact at uri into dir and returns the local path.
func (f *Fetcher) Fetch(ctx context.Context, uri, dir string) (string, error) {
	if strings.TrimSpace(uri) == "" {
		return "", zerr.Wrap(domain.ErrArtifactFetchFailed, "empty source uri")
	}

	u, err := url.Parse(uri)
	if err != nil {
		return "", zerr.With(domain.Wrap(err, domain.ErrArtifactFetchFailed), "uri", uri)
	}

	switch u.Scheme {
	case "http", "https":
		return f.download(ctx, u, dir)
	case "file":
		return f.copyLocal(u.Path, dir, uri)
	case "":
		return f.copyLocal(uri, dir, uri)
	default:
		// Windows drive letters parse as a one-letter scheme.
		if len(u.Scheme) == 1 {
			return f.copyLocal(uri, dir, uri)
		}
		return "", zerr.With(zerr.Wrap(domain.ErrArtifactFetchFailed, "unsupported scheme "+u.Scheme), "uri", uri)
	}
}

func (f *Fetcher) download(ctx context.Context, u *url.URL, dir string) (string, error) {
	uri := u.String()
	name := path.Base(u.Path)
	if name == "" || name == "/" || name == "." {
		return "", zerr.With(zerr.Wrap(domain.ErrArtifactFetchFailed, "source uri names no file"), "uri", uri)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, http.NoBody)
	if err != nil {
		return "", zerr.With(domain.Wrap(err, domain.ErrArtifactFetchFailed), "uri", uri)
	}

	f.logger.Info("downloading package", "uri", uri)
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", zerr.With(domain.Wrap(err, domain.ErrArtifactFetchFailed), "uri", uri)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		fetchErr := domain.With(domain.ErrArtifactFetchFailed, "status_code", resp.StatusCode)
		return "", zerr.With(fetchErr, "uri", uri)
	}

	dest := filepath.Join(dir, name)
	if err := atomicWrite(dest, resp.Body); err != nil {
		return "", zerr.With(domain.Wrap(err, domain.ErrArtifactFetchFailed), "uri", uri)
	}
	f.logger.Debug("package downloaded", "path", dest)
	return dest, nil
}

func (f *Fetcher) copyLocal(src, dir, uri string) (string, error) {
	src = filepath.Clean(src)
	in, err := os.Open(src)
	if err != nil {
		return "", zerr.With(domain.Wrap(err, domain.ErrArtifactFetchFailed), "uri", uri)
	}
	defer func() {
		_ = in.Close()
	}()

	dest := filepath.Join(dir, filepath.Base(src))
	if filepath.Clean(dest) == src {
		return dest, nil
	}
	if err := atomicWrite(dest, in); err != nil {
		return "", zerr.With(domain.Wrap(err, domain.ErrArtifactFetchFailed), "uri", uri)
	}
	f.logger.Debug("package copied", "path", dest)
	return dest, nil
}

// atomicWrite streams r into path through a temp file in the same directory.
func atomicWrite(path string, r io.Reader) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, ".artifact-*")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()

	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmpFile, r); err != nil {
		_ = tmpFile.Close()
		return err
	}

	if err := tmpFile.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
