package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Record is one fundamental observation as persisted: a (security,
// field, effective, filed) key plus the typed payload. Exactly one of
// the value columns is meaningful, selected by Kind.
type Record struct {
	Security      string
	FieldCode     uint32
	EffectiveDate time.Time
	FiledDate     time.Time
	Kind          string
	NumValue      *float64
	TextValue     *string
	DateValue     *time.Time
}

// Repository handles persistence of fundamental records
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Pool returns the underlying database pool
func (r *Repository) Pool() *pgxpool.Pool {
	return r.db
}

// SaveBatch saves records to the database (bulk upsert). The conflict
// key is the full point-in-time identity, so re-ingesting a filing is
// idempotent while a restatement (new filed_date) inserts a new row.
func (r *Repository) SaveBatch(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	query := `
		INSERT INTO fundamentals.entries (
			security_id, field_code, effective_date, filed_date,
			kind, num_value, text_value, date_value, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (security_id, field_code, effective_date, filed_date) DO UPDATE SET
			kind = EXCLUDED.kind,
			num_value = EXCLUDED.num_value,
			text_value = EXCLUDED.text_value,
			date_value = EXCLUDED.date_value
	`

	// Batch insert (500 records per transaction)
	batchSize := 500

	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}

		tx, err := r.db.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction (batch %d): %w", i/batchSize, err)
		}

		for _, rec := range records[i:end] {
			_, err := tx.Exec(ctx, query,
				rec.Security, rec.FieldCode, rec.EffectiveDate, rec.FiledDate,
				rec.Kind, rec.NumValue, rec.TextValue, rec.DateValue,
			)
			if err != nil {
				tx.Rollback(ctx)
				return fmt.Errorf("insert entry for %s/%d: %w", rec.Security, rec.FieldCode, err)
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit transaction (batch %d): %w", i/batchSize, err)
		}
	}

	return nil
}

const recordColumns = `
	security_id, field_code, effective_date, filed_date,
	kind, num_value, text_value, date_value
`

// LoadAll retrieves every record, ordered so appends into a series
// never shift earlier entries
func (r *Repository) LoadAll(ctx context.Context) ([]Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM fundamentals.entries
		ORDER BY security_id, field_code, effective_date, filed_date
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// LoadSince retrieves records filed strictly after the watermark,
// used by the incremental refresh
func (r *Repository) LoadSince(ctx context.Context, since time.Time) ([]Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM fundamentals.entries
		WHERE filed_date > $1
		ORDER BY security_id, field_code, effective_date, filed_date
	`

	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("query entries since %s: %w", since.Format("2006-01-02"), err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// MaxFiledDate returns the latest filed_date in storage, the watermark
// for incremental refresh. The second return is false on an empty table.
func (r *Repository) MaxFiledDate(ctx context.Context) (time.Time, bool, error) {
	query := `
		SELECT filed_date
		FROM fundamentals.entries
		ORDER BY filed_date DESC
		LIMIT 1
	`

	var filed time.Time
	err := r.db.QueryRow(ctx, query).Scan(&filed)
	if err != nil {
		if err == pgx.ErrNoRows {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("query max filed date: %w", err)
	}

	return filed, true, nil
}

// CountEntries returns the total number of stored records
func (r *Repository) CountEntries(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM fundamentals.entries`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return count, nil
}

func scanRecords(rows pgx.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.Security, &rec.FieldCode, &rec.EffectiveDate, &rec.FiledDate,
			&rec.Kind, &rec.NumValue, &rec.TextValue, &rec.DateValue,
		); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return records, nil
}
