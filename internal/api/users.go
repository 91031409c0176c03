package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/otryad/join-bot/internal/domain/users"
)

type userResponse struct {
	ID               int64  `json:"id"`
	FullName         string `json:"full_name"`
	PhoneNumber      string `json:"phone_number"`
	TelegramID       int64  `json:"telegram_id"`
	TelegramUserName string `json:"telegram_user_name"`
	IsActive         bool   `json:"is_active"`
	IsAdmin          bool   `json:"is_admin"`
	Status           string `json:"status"`
}

func toUserResponse(u *users.User) userResponse {
	return userResponse{
		ID:               u.ID,
		FullName:         u.FullName,
		PhoneNumber:      u.PhoneNumber,
		TelegramID:       u.TelegramID,
		TelegramUserName: u.TelegramUserName,
		IsActive:         u.IsActive,
		IsAdmin:          u.IsAdmin,
		Status:           u.Status,
	}
}

// GET /api/users/check/{telegram_id} — быстрый пре-чек фронта:
// есть ли участник, без отдачи профиля.
func (a *API) checkUser(w http.ResponseWriter, r *http.Request) {
	tgID, err := strconv.ParseInt(chi.URLParam(r, "telegram_id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"details": "пользователь не найден", "is_user": false})
		return
	}
	exists, err := a.users.ExistsByTelegramID(r.Context(), tgID)
	if err != nil {
		a.log.Error("user check failed", "telegram_id", tgID, "err", err)
		writeDetail(w, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}
	if !exists {
		writeJSON(w, http.StatusNotFound, map[string]any{"details": "пользователь не найден", "is_user": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"details": "пользователь найден", "is_user": true})
}

// GET /api/users/me
func (a *API) me(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r.Context())
	if u == nil {
		writeDetail(w, http.StatusNotFound, "пользователь не найден")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"details": "пользователь найден", "user": toUserResponse(u)})
}
