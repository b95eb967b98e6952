// Package output persists the consolidated table and reads it back for consumers.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/paytrend/internal/model"
	"github.com/theirongolddev/paytrend/internal/store"
)

// DefaultMissingToken marks values that were not reported.
const DefaultMissingToken = "NaN"

// Format is an artifact file type.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatXLSX   Format = "xlsx"
	FormatSQLite Format = "sqlite"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	}
	return "", fmt.Errorf("unsupported output type %q (want .csv, .xlsx, .db)", filepath.Ext(path))
}

// Write persists records to path in the format implied by its extension.
// An empty token selects DefaultMissingToken.
func Write(path string, records []model.Record, token string) error {
	if token == "" {
		token = DefaultMissingToken
	}
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	switch format {
	case FormatXLSX:
		err = writeXLSX(path, records, token)
	case FormatSQLite:
		err = writeSQLite(path, records)
	default:
		err = writeCSVFile(path, records, token)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Row renders one record as artifact fields in canonical column order.
func Row(r model.Record, token string) []string {
	return []string{
		r.Period.String(),
		string(r.Platform),
		r.Institutions.Format(token),
		r.VolumeMn.Format(token),
		r.AmountINR.Format(token),
		r.TagCount.Format(token),
	}
}

// WriteCSV writes the header and one line per record.
func WriteCSV(w io.Writer, records []model.Record, token string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.Columns); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(Row(r, token)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeCSVFile(path string, records []model.Record, token string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, records, token); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeSQLite(path string, records []model.Record) error {
	db, err := store.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return db.ReplaceRecords(records)
}
