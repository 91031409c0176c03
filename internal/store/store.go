package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier — общий срез pgx-интерфейса, который умеют и pgxpool.Pool, и pgx.Tx.
// Менеджеры записей работают только через него и никогда не открывают
// собственных транзакций.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Beginner открывает транзакцию. pgxpool.Pool подходит как есть.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// IsUniqueViolation — нарушение уникального ограничения (SQLSTATE 23505).
// Гонка двух заявок/принятий на один telegram_id ловится именно здесь
// и должна обрабатываться как бизнес-ошибка, а не падение.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
