package store

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// UnitOfWork — одна транзакция на один входящий запрос (HTTP или апдейт бота).
// Жизненный цикл: Begin -> (работа через Querier) -> Commit | Rollback.
// Повторные Commit/Rollback после завершения — no-op.
type UnitOfWork struct {
	tx   pgx.Tx
	done bool
}

func Begin(ctx context.Context, b Beginner) (*UnitOfWork, error) {
	tx, err := b.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &UnitOfWork{tx: tx}, nil
}

func (u *UnitOfWork) Querier() Querier { return u.tx }

func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	return u.tx.Commit(ctx)
}

func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	return u.tx.Rollback(ctx)
}

// Run выполняет fn внутри новой единицы работы: коммит при nil-ошибке,
// откат при ошибке или панике (паника пробрасывается дальше).
// Используется ботом на каждый апдейт; HTTP-слой делает то же самое
// в middleware.
func Run(ctx context.Context, b Beginner, fn func(ctx context.Context) error) error {
	uow, err := Begin(ctx, b)
	if err != nil {
		return err
	}
	ctx = Inject(ctx, uow)
	defer func() {
		if r := recover(); r != nil {
			_ = uow.Rollback(ctx)
			panic(r)
		}
	}()
	if err := fn(ctx); err != nil {
		_ = uow.Rollback(ctx)
		return err
	}
	return uow.Commit(ctx)
}
