package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repositories translate into domain errors
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// IsPgDuplicateError reports a unique constraint violation (duplicate
// proposal id, snapshot version or attestation)
func IsPgDuplicateError(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// IsPgForeignKeyError reports a reference to a missing tender or proposal
func IsPgForeignKeyError(err error) bool {
	return hasCode(err, codeForeignKeyViolation)
}

// IsPgNoRowsError reports an empty single-row lookup
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
