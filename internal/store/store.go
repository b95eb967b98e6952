// Package store writes the consolidated payments table to a SQLite file.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/paytrend/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// DB is a SQLite file holding the payments table.
type DB struct {
	db *sql.DB
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(delete)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("opening output db: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// ReplaceRecords recreates the payments table and inserts records in order.
// Numbers are rounded to two decimals; missing values are stored as NULL.
func (d *DB) ReplaceRecords(records []model.Record) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(schemaSQL); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO payments
		(period, platform, participating_institutions, transaction_volume_millions,
		 transaction_amount_inr, secondary_tag_count, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range records {
		_, err := stmt.Exec(
			r.Period.String(), string(r.Platform),
			nullable(r.Institutions), nullable(r.VolumeMn),
			nullable(r.AmountINR), nullable(r.TagCount), i,
		)
		if err != nil {
			return fmt.Errorf("inserting %s %s: %w", r.Period, r.Platform, err)
		}
	}

	return tx.Commit()
}

// LoadRecords reads the payments table back in stored order.
func (d *DB) LoadRecords() ([]model.Record, error) {
	rows, err := d.db.Query(`SELECT
		period, platform, participating_institutions, transaction_volume_millions,
		transaction_amount_inr, secondary_tag_count
		FROM payments ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []model.Record
	for rows.Next() {
		var (
			period, platform          string
			inst, vol, amount, tagCnt sql.NullFloat64
		)
		if err := rows.Scan(&period, &platform, &inst, &vol, &amount, &tagCnt); err != nil {
			return nil, err
		}
		p, err := model.ParsePeriod(period)
		if err != nil {
			return nil, err
		}
		records = append(records, model.Record{
			Period:       p,
			Platform:     model.Platform(platform),
			Institutions: fromNull(inst),
			VolumeMn:     fromNull(vol),
			AmountINR:    fromNull(amount),
			TagCount:     fromNull(tagCnt),
		})
	}
	return records, rows.Err()
}

// Count returns the number of stored records.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM payments").Scan(&count)
	return count, err
}

func nullable(v model.Value) sql.NullFloat64 {
	if !v.Valid {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v.Decimal.Round(2).InexactFloat64(), Valid: true}
}

func fromNull(n sql.NullFloat64) model.Value {
	if !n.Valid {
		return model.Missing
	}
	return model.Some(decimal.NewFromFloat(n.Float64))
}
