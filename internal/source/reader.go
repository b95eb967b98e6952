// Package source reads the raw payment statistics sheets into untyped tables.
package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/paytrend/internal/model"
)

// ErrNoHeader is returned for files without a header row.
var ErrNoHeader = errors.New("no header row")

// ReadFile loads the first sheet of path. The format is chosen by extension.
func ReadFile(path string) (model.RawTable, error) {
	var (
		t   model.RawTable
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		t, err = ReadXLSX(path)
	case ".csv":
		t, err = ReadCSV(path)
	default:
		return model.RawTable{}, fmt.Errorf("reading %s: unsupported file type %q", path, filepath.Ext(path))
	}
	if err != nil {
		return model.RawTable{}, fmt.Errorf("reading %s: %w", path, err)
	}
	t.Source = path
	return t, nil
}
