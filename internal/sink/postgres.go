package sink

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// pgPool is the subset of *pgxpool.Pool used by Postgres; pgxmock satisfies it.
type pgPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Close()
}

// leadColumns are the leads table columns written by CopyFrom.
var leadColumns = []string{
	"id", "business_name", "owner_name", "email", "phone", "rating",
	"opening_hours", "website", "address", "website_exists", "cold_email", "created_at",
}

// Postgres stores leads in PostgreSQL using the COPY protocol.
type Postgres struct {
	pool pgPool
}

// NewPostgres connects to connString.
func NewPostgres(ctx context.Context, connString string) (*Postgres, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &Postgres{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id             UUID PRIMARY KEY,
	business_name  TEXT NOT NULL,
	owner_name     TEXT NOT NULL DEFAULT '',
	email          TEXT NOT NULL DEFAULT '',
	phone          TEXT NOT NULL DEFAULT '',
	rating         TEXT NOT NULL DEFAULT '',
	opening_hours  TEXT NOT NULL DEFAULT '',
	website        TEXT NOT NULL,
	address        TEXT NOT NULL DEFAULT '',
	website_exists BOOLEAN NOT NULL,
	cold_email     TEXT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_leads_business_name ON leads(business_name);
`

// Migrate creates the leads table.
func (p *Postgres) Migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

// Close closes the pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// Name implements Sink.
func (p *Postgres) Name() string { return "postgres" }

// AppendRows implements Sink.
func (p *Postgres) AppendRows(ctx context.Context, leads []model.Lead) error {
	if len(leads) == 0 {
		return nil
	}

	now := time.Now().UTC()
	rows := make([][]any, len(leads))
	for i, l := range leads {
		rows[i] = []any{
			uuid.New(), l.BusinessName, l.OwnerName, l.Email, l.Phone, l.Rating,
			l.OpeningHours, l.Website, l.Address, l.WebsiteExists, l.ColdEmail, now,
		}
	}

	n, err := p.pool.CopyFrom(ctx, pgx.Identifier{"leads"}, leadColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return eris.Wrap(err, "postgres: COPY INTO leads")
	}
	if n != int64(len(leads)) {
		return eris.Errorf("postgres: copied %d of %d leads", n, len(leads))
	}

	zap.L().Info("postgres: appended leads", zap.Int64("rows", n))
	return nil
}
