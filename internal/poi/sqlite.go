// SPDX-License-Identifier: MIT

package poi

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/tripstep/tripstep/internal/domain"
)

// SQLiteStore serves POIs from a SQLite database. The schema is created on
// open if missing; ORDER BY id keeps list order stable.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS pois (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	lat             REAL NOT NULL,
	lon             REAL NOT NULL,
	category        TEXT NOT NULL,
	address         TEXT NOT NULL DEFAULT '',
	city            TEXT NOT NULL,
	avg_visit_hours REAL NOT NULL DEFAULT 1,
	ticket_price    REAL NOT NULL DEFAULT 0,
	rating          REAL NOT NULL DEFAULT 0,
	review_count    INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_pois_city ON pois(city);
`

// OpenSQLite opens (creating if needed) the POI database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open poi db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init poi schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Seed inserts or replaces the given POIs.
func (s *SQLiteStore) Seed(ctx context.Context, pois []domain.POI) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed pois: %w", err)
	}
	defer tx.Rollback()
	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO pois
		(id, name, lat, lon, category, address, city, avg_visit_hours, ticket_price, rating, review_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("seed pois: %w", err)
	}
	defer stmt.Close()
	for _, p := range pois {
		if _, err := stmt.ExecContext(ctx, p.ID, p.Name, p.Lat, p.Lon, string(p.Category),
			p.Address, p.City, p.AvgVisitHours, p.TicketPrice, p.Rating, p.ReviewCount); err != nil {
			return fmt.Errorf("seed poi %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) ListInCity(ctx context.Context, city string, limit int) ([]domain.POI, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, lat, lon, category, address, city,
		avg_visit_hours, ticket_price, rating, review_count
		FROM pois WHERE city = ? ORDER BY id LIMIT ?`, city, limit)
	if err != nil {
		return nil, domain.NewReasonError(domain.RStoreFailure, "list pois", err)
	}
	defer rows.Close()

	var out []domain.POI
	for rows.Next() {
		var p domain.POI
		var cat string
		if err := rows.Scan(&p.ID, &p.Name, &p.Lat, &p.Lon, &cat, &p.Address, &p.City,
			&p.AvgVisitHours, &p.TicketPrice, &p.Rating, &p.ReviewCount); err != nil {
			return nil, domain.NewReasonError(domain.RStoreFailure, "scan poi", err)
		}
		p.Category = domain.Category(cat)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewReasonError(domain.RStoreFailure, "list pois", err)
	}
	return out, nil
}

func (s *SQLiteStore) Find(ctx context.Context, city, idOrName string) (domain.POI, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, lat, lon, category, address, city,
		avg_visit_hours, ticket_price, rating, review_count
		FROM pois WHERE city = ? AND (id = ? OR name = ?) ORDER BY id LIMIT 1`,
		city, idOrName, idOrName)

	var p domain.POI
	var cat string
	err := row.Scan(&p.ID, &p.Name, &p.Lat, &p.Lon, &cat, &p.Address, &p.City,
		&p.AvgVisitHours, &p.TicketPrice, &p.Rating, &p.ReviewCount)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.POI{}, domain.NewReasonError(domain.RInvalidInput, "unknown POI "+idOrName+" in "+city, nil)
	}
	if err != nil {
		return domain.POI{}, domain.NewReasonError(domain.RStoreFailure, "find poi", err)
	}
	p.Category = domain.Category(cat)
	return p, nil
}
