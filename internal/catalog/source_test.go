package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectStore struct {
	objects map[string][]byte
	keys    []string
}

func (f *fakeObjectStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	f.keys = append(f.keys, key)
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return data, nil
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "collections with descriptions.csv"), []byte("id\nc1"), 0o644))

	source := NewFileSource(dir)
	data, err := source.Fetch(context.Background(), "/collections with descriptions.csv")
	require.NoError(t, err)
	assert.Equal(t, "id\nc1", string(data))

	_, err = source.Fetch(context.Background(), "missing.csv")
	assert.Error(t, err)

	_, err = source.Fetch(context.Background(), "../../etc/passwd")
	assert.Error(t, err, "paths cannot escape the catalog directory")
}

func TestHTTPSource(t *testing.T) {
	var requested string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.EscapedPath()
		if r.URL.Path == "/missing.csv" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("id\np1"))
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL+"/", server.Client())

	data, err := source.Fetch(context.Background(), "collections with descriptions.csv")
	require.NoError(t, err)
	assert.Equal(t, "id\np1", string(data))
	assert.Equal(t, "/collections%20with%20descriptions.csv", requested)

	_, err = source.Fetch(context.Background(), "missing.csv")
	assert.Error(t, err, "non-2xx responses are failures")
}

func TestObjectSource(t *testing.T) {
	store := &fakeObjectStore{objects: map[string][]byte{"catalog/products.csv": []byte("id\np1")}}
	source := NewObjectSource(store, "catalog")

	data, err := source.Fetch(context.Background(), "/products.csv")
	require.NoError(t, err)
	assert.Equal(t, "id\np1", string(data))

	_, err = source.Fetch(context.Background(), "collections.csv")
	assert.Error(t, err)
	assert.Equal(t, []string{"catalog/products.csv", "catalog/collections.csv"}, store.keys)
}

func TestLoader_FetchRows(t *testing.T) {
	store := &fakeObjectStore{objects: map[string][]byte{"products.csv": []byte("id,name\np1,Matcha")}}
	loader := NewLoader(NewObjectSource(store, ""))
	assert.Equal(t, "s3", loader.SourceName())

	rows := loader.FetchRows(context.Background(), "products.csv")
	assert.Equal(t, []Row{{"id": "p1", "name": "Matcha"}}, rows)

	rows = loader.FetchRows(context.Background(), "absent.csv")
	require.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestParseFile(t *testing.T) {
	rows, err := ParseFile("products.CSV", []byte("id\np1"))
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = ParseFile("products.json", []byte("{}"))
	assert.Error(t, err)
}
