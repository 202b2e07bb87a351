package database

import (
	"database/sql"
	"errors"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// SupabaseDialect targets hosted Postgres through the pgx driver.
// Connections go through the provider's pooler, always over TLS.
type SupabaseDialect struct {
	PostgresDialect
}

// NewSupabaseDialect creates a new hosted Postgres dialect
func NewSupabaseDialect() *SupabaseDialect {
	return &SupabaseDialect{}
}

func (d *SupabaseDialect) DriverName() string {
	return "pgx"
}

// DSN forces sslmode=require unless the URL already picks a mode
func (d *SupabaseDialect) DSN(config DialectConfig) string {
	u, err := url.Parse(config.URL)
	if err != nil || u.Scheme == "" {
		return config.URL
	}
	q := u.Query()
	if q.Get("sslmode") == "" {
		q.Set("sslmode", "require")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (d *SupabaseDialect) ConfigureConnection(db *sql.DB) error {
	// the hosted pooler caps client connections per project
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(30 * time.Second)
	return nil
}

func (d *SupabaseDialect) IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
