package catalog

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ikkim/storefront-backend/pkg/logger"
)

// Loader fetches catalog files from a Source and parses them into rows.
type Loader struct {
	source Source
}

func NewLoader(source Source) *Loader {
	return &Loader{source: source}
}

func (l *Loader) SourceName() string {
	return l.source.Name()
}

// FetchRows fetches and parses one CSV file. It never fails: fetch or read errors are logged
// and reported as an empty result so the caller can fall back to bundled data.
func (l *Loader) FetchRows(ctx context.Context, name string) []Row {
	logger.Debug("Fetching catalog file", map[string]interface{}{
		"source": l.source.Name(),
		"file":   name,
	})

	data, err := l.source.Fetch(ctx, name)
	if err != nil {
		logger.Error("Error loading catalog CSV", err, map[string]interface{}{
			"source": l.source.Name(),
			"file":   name,
		})
		return []Row{}
	}

	rows := ParseCSV(string(data))
	logger.Debug("Catalog file parsed", map[string]interface{}{
		"file": name,
		"rows": len(rows),
	})
	return rows
}

// ParseFile parses an uploaded catalog file, picking the format from the file extension.
func ParseFile(filename string, data []byte) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt", "":
		return ParseCSV(string(data)), nil
	case ".xlsx":
		return ParseXLSX(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported catalog file type %q", filepath.Ext(filename))
	}
}
