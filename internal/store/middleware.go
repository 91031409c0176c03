package store

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// Middleware открывает единицу работы на каждый HTTP-запрос и привязывает её
// к контексту. Коммит — если обработчик отработал без паники и ответил
// статусом < 500, иначе откат: запрос либо записывает всё, либо ничего.
func Middleware(b Beginner, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uow, err := Begin(r.Context(), b)
			if err != nil {
				log.Error("begin unit of work failed", "err", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			ctx := Inject(r.Context(), uow)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				if rec := recover(); rec != nil {
					_ = uow.Rollback(ctx)
					log.Error("panic in handler", "path", r.URL.Path, "err", rec)
					if ww.Status() == 0 {
						http.Error(ww, "internal error", http.StatusInternalServerError)
					}
					return
				}
				if ww.Status() >= http.StatusInternalServerError {
					_ = uow.Rollback(ctx)
					return
				}
				if err := uow.Commit(ctx); err != nil {
					// Нарушение ограничения могло всплыть только на коммите.
					log.Error("commit failed", "path", r.URL.Path, "err", err)
					if ww.Status() == 0 {
						http.Error(ww, "internal error", http.StatusInternalServerError)
					}
				}
			}()

			next.ServeHTTP(ww, r.WithContext(ctx))
		})
	}
}
