package api

import (
	"context"
	"net/http"

	"github.com/otryad/join-bot/internal/auth"
	"github.com/otryad/join-bot/internal/domain/users"
)

type ctxKey int

const (
	ctxTelegramID ctxKey = iota
	ctxUser
)

// checkTelegram пускает дальше только запросы с валидной подписью
// X-Telegram-Init-Data. Причина отказа наружу не отдаётся.
func (a *API) checkTelegram(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		initData := r.Header.Get("X-Telegram-Init-Data")
		if initData == "" {
			writeDetail(w, http.StatusUnauthorized, "не авторизован")
			return
		}
		u := auth.User(initData, a.botToken)
		if u == nil {
			writeDetail(w, http.StatusUnauthorized, "не авторизован")
			return
		}
		ctx := context.WithValue(r.Context(), ctxTelegramID, u.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireUser резолвит участника по подписанному telegram_id.
func (a *API) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tgID, ok := r.Context().Value(ctxTelegramID).(int64)
		if !ok {
			writeDetail(w, http.StatusUnauthorized, "не авторизован")
			return
		}
		u, err := a.users.GetByTelegramID(r.Context(), tgID)
		if err != nil {
			a.log.Error("user lookup failed", "telegram_id", tgID, "err", err)
			writeDetail(w, http.StatusInternalServerError, "внутренняя ошибка")
			return
		}
		if u == nil {
			writeDetail(w, http.StatusUnauthorized, "вы не зарегистрированы")
			return
		}
		ctx := context.WithValue(r.Context(), ctxUser, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin — свежая проверка прав на каждый запрос, без кеша.
func (a *API) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := r.Context().Value(ctxUser).(*users.User)
		if !ok || !u.IsAdmin {
			writeDetail(w, http.StatusForbidden, "недостаточно прав")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func currentUser(ctx context.Context) *users.User {
	u, _ := ctx.Value(ctxUser).(*users.User)
	return u
}
