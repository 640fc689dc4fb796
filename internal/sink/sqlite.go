package sink

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// SQLite stores leads in a local SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLite{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id             TEXT PRIMARY KEY,
	business_name  TEXT NOT NULL,
	owner_name     TEXT NOT NULL DEFAULT '',
	email          TEXT NOT NULL DEFAULT '',
	phone          TEXT NOT NULL DEFAULT '',
	rating         TEXT NOT NULL DEFAULT '',
	opening_hours  TEXT NOT NULL DEFAULT '',
	website        TEXT NOT NULL,
	address        TEXT NOT NULL DEFAULT '',
	website_exists INTEGER NOT NULL,
	cold_email     TEXT NOT NULL,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_leads_business_name ON leads(business_name);
CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at);
`

// Migrate creates the leads table.
func (s *SQLite) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Name implements Sink.
func (s *SQLite) Name() string { return "sqlite" }

// AppendRows implements Sink. All leads are written in one transaction.
func (s *SQLite) AppendRows(ctx context.Context, leads []model.Lead) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO leads
		(id, business_name, owner_name, email, phone, rating, opening_hours, website, address, website_exists, cold_email, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close() //nolint:errcheck

	now := time.Now().UTC()
	for _, l := range leads {
		if _, err := stmt.ExecContext(ctx,
			uuid.New().String(), l.BusinessName, l.OwnerName, l.Email, l.Phone, l.Rating,
			l.OpeningHours, l.Website, l.Address, l.WebsiteExists, l.ColdEmail, now,
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert lead %s", l.BusinessName)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

// List returns the most recently stored leads, newest first.
func (s *SQLite) List(ctx context.Context, limit int) ([]model.Lead, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT business_name, owner_name, email, phone, rating,
		opening_hours, website, address, website_exists, cold_email
		FROM leads ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close() //nolint:errcheck

	var leads []model.Lead
	for rows.Next() {
		var l model.Lead
		if err := rows.Scan(&l.BusinessName, &l.OwnerName, &l.Email, &l.Phone, &l.Rating,
			&l.OpeningHours, &l.Website, &l.Address, &l.WebsiteExists, &l.ColdEmail); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead")
		}
		leads = append(leads, l)
	}
	return leads, eris.Wrap(rows.Err(), "sqlite: iterate leads")
}
