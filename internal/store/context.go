package store

import "context"

type ctxKey struct{}

// Inject привязывает единицу работы к контексту запроса.
// Всё, что ниже по стеку, достаёт её через From — без протаскивания
// транзакции отдельным параметром.
func Inject(ctx context.Context, u *UnitOfWork) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// From возвращает текущую единицу работы. Вызов без привязанной
// транзакции — ошибка программирования, падаем сразу.
func From(ctx context.Context) *UnitOfWork {
	u, ok := ctx.Value(ctxKey{}).(*UnitOfWork)
	if !ok {
		panic("store: unit of work is not bound to the context")
	}
	return u
}

func Has(ctx context.Context) bool {
	_, ok := ctx.Value(ctxKey{}).(*UnitOfWork)
	return ok
}
