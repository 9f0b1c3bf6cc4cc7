package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/shortly-go/internal/analytics"
)

const (
	kindCreated  = "created"
	kindResolved = "resolved"
)

// Postgres is a PostgreSQL implementation of analytics.Store.
// Events are appended to a single link_events table.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a new PostgreSQL-backed analytics store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// EnsureSchema creates the link_events table if it does not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS link_events (
			id          BIGSERIAL PRIMARY KEY,
			kind        TEXT        NOT NULL,
			code        TEXT        NOT NULL,
			target      TEXT,
			client_ip   TEXT,
			user_agent  TEXT,
			referrer    TEXT,
			occurred_at TIMESTAMPTZ NOT NULL,
			expires_at  TIMESTAMPTZ
		);
		CREATE INDEX IF NOT EXISTS link_events_code_idx ON link_events (code);
	`

	if _, err := p.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("create link_events table: %w", err)
	}

	return nil
}

func (p *Postgres) SaveLinkCreated(ctx context.Context, event *analytics.LinkCreatedEvent) error {
	query := `
		INSERT INTO link_events (kind, code, target, client_ip, user_agent, occurred_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := p.pool.Exec(ctx, query,
		kindCreated,
		event.Code,
		event.Target,
		nullableString(event.ClientIP),
		nullableString(event.UserAgent),
		event.CreatedAt,
		event.ExpiresAt,
	)

	return err
}

func (p *Postgres) SaveLinkResolved(ctx context.Context, event *analytics.LinkResolvedEvent) error {
	query := `
		INSERT INTO link_events (kind, code, client_ip, user_agent, referrer, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := p.pool.Exec(ctx, query,
		kindResolved,
		event.Code,
		nullableString(event.ClientIP),
		nullableString(event.UserAgent),
		nullableString(event.Referrer),
		event.ResolvedAt,
	)

	return err
}

// CountByCode returns how many events of the given kind were recorded for code.
func (p *Postgres) CountByCode(ctx context.Context, kind, code string) (int64, error) {
	var count int64

	err := p.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM link_events WHERE kind = $1 AND code = $2`,
		kind, code,
	).Scan(&count)

	return count, err
}

// Shutdown closes the connection pool.
func (p *Postgres) Shutdown() error {
	p.pool.Close()

	return nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

// Compile-time check.
var _ analytics.Store = (*Postgres)(nil)
