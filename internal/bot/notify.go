package bot

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/otryad/join-bot/internal/domain/applications"
)

// Notifier — исходящая сторона воркфлоу. Отдельный от Bot тип, чтобы
// сервис не зависел от всего бота; клиент Telegram у них общий.
type Notifier struct {
	api       *tgbotapi.BotAPI
	log       *slog.Logger
	adminChat int64
}

func NewNotifier(api *tgbotapi.BotAPI, log *slog.Logger, adminChatID int64) *Notifier {
	return &Notifier{api: api, log: log, adminChat: adminChatID}
}

// NotifyAdmins шлёт карточку заявки в админский чат с кнопками решения.
func (n *Notifier) NotifyAdmins(_ context.Context, app *applications.Application) {
	text := fmt.Sprintf(
		"📨 Новая заявка №%d\nФИО: %s\nТелефон: %s\nTelegram: @%s",
		app.ID, app.FullName, app.PhoneNumber, app.TelegramUserName,
	)
	msg := tgbotapi.NewMessage(n.adminChat, text)
	msg.ReplyMarkup = decisionKeyboard(app.ID)
	n.send(msg)
}

func (n *Notifier) NotifyApplicant(_ context.Context, telegramID int64, text string) {
	n.send(tgbotapi.NewMessage(telegramID, text))
}

func (n *Notifier) send(msg tgbotapi.Chattable) {
	// ошибка доставки не должна валить воркфлоу
	if _, err := n.api.Send(msg); err != nil {
		n.log.Error("notify send failed", "err", err)
	}
}
