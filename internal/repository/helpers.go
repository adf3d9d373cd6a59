package repository

import (
	"context"
	"errors"
	"fmt"

	"pinboard-backend/internal/apperr"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// mapError turns driver errors into error kinds. what names the entity, action the failed operation.
func mapError(err error, what, action string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("%s not found", what)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperr.Duplicate("%s already exists", what)
		case pgCheckViolation:
			return apperr.SelfReference("%s cannot reference itself", what)
		}
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// appendToArray adds value to an array column once. It reports NotFound if no row has the id.
// table and column are always package constants.
func appendToArray(ctx context.Context, db DBTX, table, column, id, value, what string) error {
	query := fmt.Sprintf(`
		UPDATE %[1]s
		SET %[2]s = CASE WHEN $2 = ANY(%[2]s) THEN %[2]s ELSE array_append(%[2]s, $2) END,
		    updated_at = now()
		WHERE id = $1
	`, table, column)
	result, err := db.Exec(ctx, query, id, value)
	if err != nil {
		return fmt.Errorf("failed to append to %s.%s: %w", table, column, err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("%s not found", what)
	}
	return nil
}

// removeFromArray pulls value from an array column. A missing row is not an error.
func removeFromArray(ctx context.Context, db DBTX, table, column, id, value string) error {
	query := fmt.Sprintf(`
		UPDATE %[1]s
		SET %[2]s = array_remove(%[2]s, $2), updated_at = now()
		WHERE id = $1
	`, table, column)
	if _, err := db.Exec(ctx, query, id, value); err != nil {
		return fmt.Errorf("failed to remove from %s.%s: %w", table, column, err)
	}
	return nil
}

// removeFromArrayEverywhere pulls value from the column of every row holding it
func removeFromArrayEverywhere(ctx context.Context, db DBTX, table, column, value string) (int64, error) {
	query := fmt.Sprintf(`
		UPDATE %[1]s
		SET %[2]s = array_remove(%[2]s, $1), updated_at = now()
		WHERE $1 = ANY(%[2]s)
	`, table, column)
	result, err := db.Exec(ctx, query, value)
	if err != nil {
		return 0, fmt.Errorf("failed to remove from %s.%s: %w", table, column, err)
	}
	return result.RowsAffected(), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
