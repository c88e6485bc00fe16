package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"rentcompare/models"
)

// PostgresStore persists processed rental records to PostgreSQL. It doubles
// as an acquisition fallback tier: a restarted process can serve from the
// last ingested dataset before any network call succeeds.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresStore.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate() error {
	_, err := ps.db.Exec(`
		CREATE TABLE IF NOT EXISTS rental_records (
			id              SERIAL PRIMARY KEY,
			geography       TEXT        NOT NULL,
			bedrooms        VARCHAR(10) NOT NULL,
			value           TEXT        NOT NULL,
			ref_date        TEXT        NOT NULL DEFAULT '',
			data_age_months INTEGER,
			year            INTEGER,
			structure_type  TEXT        NOT NULL DEFAULT '',
			category        VARCHAR(20) NOT NULL DEFAULT '',
			ingested_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_rental_geography ON rental_records(geography);
		CREATE INDEX IF NOT EXISTS idx_rental_bedrooms  ON rental_records(bedrooms);
		CREATE INDEX IF NOT EXISTS idx_rental_year      ON rental_records(year);
	`)
	return err
}

// Clear deletes all stored records.
func (ps *PostgresStore) Clear() error {
	_, err := ps.db.Exec("DELETE FROM rental_records")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write batch-inserts a full processed dataset, clearing the previous one
// first. The table always holds exactly one ingestion pass.
func (ps *PostgresStore) Write(records []models.RentalRecord) error {
	if len(records) == 0 {
		return nil
	}

	if err := ps.Clear(); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := ps.insertBatch(records[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (ps *PostgresStore) insertBatch(batch []models.RentalRecord) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*8)

	for idx, r := range batch {
		base := idx * 8
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8))
		valueArgs = append(valueArgs,
			r.Geography, r.Bedrooms, r.Value, r.RefDate,
			nullableInt(r.DataAgeMonths), nullableInt(r.Year),
			r.StructureType, r.Category)
	}

	query := fmt.Sprintf(`
		INSERT INTO rental_records (geography, bedrooms, value, ref_date, data_age_months, year, structure_type, category)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := ps.db.Exec(query, valueArgs...)
	return err
}

// FetchAll retrieves the stored dataset in ingestion order.
func (ps *PostgresStore) FetchAll() ([]models.RentalRecord, error) {
	rows, err := ps.db.Query(`
		SELECT geography, bedrooms, value, ref_date, data_age_months, year, structure_type, category
		FROM rental_records
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var records []models.RentalRecord
	for rows.Next() {
		var r models.RentalRecord
		var age, year sql.NullInt64
		if err := rows.Scan(
			&r.Geography, &r.Bedrooms, &r.Value, &r.RefDate,
			&age, &year, &r.StructureType, &r.Category,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		if age.Valid {
			v := int(age.Int64)
			r.DataAgeMonths = &v
		}
		if year.Valid {
			v := int(year.Int64)
			r.Year = &v
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
