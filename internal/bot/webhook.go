package bot

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// WebhookHandler принимает пуши Telegram на POST /bot/{token}.
// Токен в пути — первая линия защиты, secret-заголовок — вторая.
type WebhookHandler struct {
	bot    *Bot
	log    *slog.Logger
	token  string
	secret string
}

func NewWebhookHandler(b *Bot, log *slog.Logger, token, secret string) *WebhookHandler {
	return &WebhookHandler{bot: b, log: log, token: token, secret: secret}
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "token") != h.token {
		http.NotFound(w, r)
		return
	}
	if h.secret != "" && r.Header.Get("X-Telegram-Bot-Api-Secret-Token") != h.secret {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	var upd tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		h.log.Error("bad webhook payload", "err", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	h.bot.HandleUpdate(r.Context(), upd)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
