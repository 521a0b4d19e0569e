package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Source fetches a catalog file by its relative path.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
	Name() string
}

// FileSource reads catalog files from a local directory.
type FileSource struct {
	Dir string
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir}
}

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.Dir, filepath.Clean("/"+name)))
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", name, err)
	}
	return data, nil
}

// HTTPSource fetches catalog files relative to a base URL, the way a browser fetches static assets.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPSource(baseURL string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{BaseURL: strings.TrimRight(baseURL, "/"), Client: client}
}

func (s *HTTPSource) Name() string { return "http" }

func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	target := s.BaseURL + "/" + escapePath(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", target, err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %d", target, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", target, err)
	}
	return data, nil
}

func escapePath(name string) string {
	segments := strings.Split(strings.TrimLeft(name, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// ObjectGetter is the slice of an object store the catalog needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, key string) ([]byte, error)
}

// ObjectSource reads catalog files from an object store under an optional key prefix.
type ObjectSource struct {
	Store  ObjectGetter
	Prefix string
}

func NewObjectSource(store ObjectGetter, prefix string) *ObjectSource {
	return &ObjectSource{Store: store, Prefix: prefix}
}

func (s *ObjectSource) Name() string { return "s3" }

func (s *ObjectSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	key := strings.TrimLeft(path.Join(s.Prefix, name), "/")
	data, err := s.Store.GetObject(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog object %s: %w", key, err)
	}
	return data, nil
}
