package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds the table names used by the repositories
type TableNames struct {
	Tenders      string
	Company      string
	Proposals    string
	Versions     string
	Attestations string
}

// DefaultTableNames returns the names created by the embedded migrations
func DefaultTableNames() *TableNames {
	return &TableNames{
		Tenders:      "tenders",
		Company:      "company_profile",
		Proposals:    "proposals",
		Versions:     "proposal_versions",
		Attestations: "attestations",
	}
}

// CreateConnectionPool creates a pgx connection pool.
//
// Port 6543 is the Supabase transaction pooler (PgBouncer), which does not
// support prepared statements. Unless the connection string already sets
// default_query_exec_mode, the pool switches to QueryExecModeCacheDescribe
// there. Direct connections keep the prepared statement cache.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction stored in ctx, or the pool when there is none.
// Repositories use it so they join an enclosing ExecTx automatically.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) DBTX {
	if tx := GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
