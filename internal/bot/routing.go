package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/otryad/join-bot/internal/domain/membership"
)

func (b *Bot) onMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.IsCommand() {
		return b.handleCommand(ctx, msg)
	}
	if msg.WebAppData != nil {
		return b.handleWebAppData(ctx, msg)
	}
	return b.handleDialogInput(ctx, msg)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	tgID := msg.From.ID

	switch msg.Command() {
	case "start":
		u, err := b.users.GetByTelegramID(ctx, tgID)
		if err != nil {
			return err
		}
		if u != nil {
			m := tgbotapi.NewMessage(chatID, "👋 С возвращением! Вы уже участник отряда.")
			if b.webAppURL != "" {
				m.ReplyMarkup = webAppKeyboard(b.webAppURL)
			}
			b.send(m)
			return nil
		}
		active, err := b.apps.HasActive(ctx, tgID)
		if err != nil {
			return err
		}
		if active {
			b.send(tgbotapi.NewMessage(chatID, "Ваша заявка уже на рассмотрении, ждите уведомления."))
			return nil
		}
		m := tgbotapi.NewMessage(chatID, "👋 Привет!\n\nОткрой приложение и стань частью нашего отряда.\nИли подай заявку прямо здесь.")
		m.ReplyMarkup = applyKeyboard(b.webAppURL)
		b.send(m)
		return nil

	case "help":
		b.send(tgbotapi.NewMessage(chatID,
			"Команды:\n/start — подать заявку или открыть приложение\n/status — статус вашей заявки\n/help — помощь"))
		return nil

	case "status":
		return b.handleStatus(ctx, chatID, tgID)

	case "export":
		u, err := b.users.GetByTelegramID(ctx, tgID)
		if err != nil {
			return err
		}
		if u == nil || !u.IsAdmin {
			b.send(tgbotapi.NewMessage(chatID, "Доступ запрещён"))
			return nil
		}
		return b.handleExport(ctx, chatID)
	}
	return nil
}

// handleStatus показывает заявителю, где сейчас его заявка.
func (b *Bot) handleStatus(ctx context.Context, chatID, tgID int64) error {
	u, err := b.users.GetByTelegramID(ctx, tgID)
	if err != nil {
		return err
	}
	if u != nil {
		b.send(tgbotapi.NewMessage(chatID, "✅ Вы участник, заявка давно принята."))
		return nil
	}
	active, err := b.apps.HasActive(ctx, tgID)
	if err != nil {
		return err
	}
	if active {
		b.send(tgbotapi.NewMessage(chatID, "⏳ Заявка на рассмотрении."))
	} else {
		b.send(tgbotapi.NewMessage(chatID, "Заявки нет. Подать — /start"))
	}
	return nil
}

// handleWebAppData — заявка из Mini App: телеграм уже проверил её подпись
// на своей стороне, telegram_id берём из отправителя, не из payload.
func (b *Bot) handleWebAppData(ctx context.Context, msg *tgbotapi.Message) error {
	var data struct {
		FullName         string `json:"full_name"`
		PhoneNumber      string `json:"phone_number"`
		TelegramUserName string `json:"telegram_user_name"`
	}
	if err := json.Unmarshal([]byte(msg.WebAppData.Data), &data); err != nil {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "Не удалось разобрать данные формы."))
		return nil
	}
	if data.TelegramUserName == "" {
		data.TelegramUserName = msg.From.UserName
	}

	_, err := b.flow.Submit(ctx, membership.SubmitRequest{
		FullName:         data.FullName,
		PhoneNumber:      data.PhoneNumber,
		TelegramID:       msg.From.ID,
		TelegramUserName: data.TelegramUserName,
	})
	if err != nil {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, submitErrorText(err)))
		return nil
	}
	// подтверждение заявителю шлёт сам воркфлоу
	return nil
}

func (b *Bot) onCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	data := cb.Data
	switch {
	case data == "apply:start":
		return b.startApplyDialog(ctx, cb)
	case data == "rq:send":
		return b.submitForm(ctx, cb)
	case data == "nav:cancel":
		if err := b.states.Reset(ctx, cb.Message.Chat.ID); err != nil {
			return err
		}
		b.editTextAndClear(cb.Message.Chat.ID, cb.Message.MessageID, "Анкета отменена.")
		b.answerCallback(cb, "", false)
		return nil
	case strings.HasPrefix(data, "accept_"), strings.HasPrefix(data, "reject_"):
		return b.handleDecision(ctx, cb)
	}
	b.answerCallback(cb, "", false)
	return nil
}

// handleDecision — accept_<id>/reject_<id> от админа. Права проверяются
// свежим чтением на каждый клик.
func (b *Bot) handleDecision(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	u, err := b.users.GetByTelegramID(ctx, cb.From.ID)
	if err != nil {
		return err
	}
	if u == nil || !u.IsAdmin {
		b.answerCallback(cb, "Недостаточно прав", true)
		return nil
	}

	action, id, err := parseDecision(cb.Data)
	if err != nil {
		b.answerCallback(cb, "Некорректная кнопка", true)
		return nil
	}

	switch action {
	case "accept":
		_, err = b.flow.Accept(ctx, id)
	case "reject":
		_, err = b.flow.Reject(ctx, id)
	}
	if err != nil {
		b.answerCallback(cb, decisionErrorText(err), true)
		// бизнес-отказ — не ошибка апдейта: возможный перевод заявки
		// в reject (устаревшая) должен закоммититься
		return nil
	}

	b.send(tgbotapi.NewDeleteMessage(cb.Message.Chat.ID, cb.Message.MessageID))
	if action == "accept" {
		b.answerCallback(cb, "Заявка принята", false)
	} else {
		b.answerCallback(cb, "Заявка отклонена", false)
	}
	return nil
}

// parseDecision разбирает callback data вида "accept_42" / "reject_42".
func parseDecision(data string) (action string, id int64, err error) {
	action, raw, ok := strings.Cut(data, "_")
	if !ok || (action != "accept" && action != "reject") {
		return "", 0, fmt.Errorf("bad callback data %q", data)
	}
	id, err = strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return "", 0, fmt.Errorf("bad application id in %q", data)
	}
	return action, id, nil
}

func submitErrorText(err error) string {
	switch {
	case errors.Is(err, membership.ErrAlreadyMember):
		return "Вы уже зарегистрированы."
	case errors.Is(err, membership.ErrDuplicateApplication):
		return "Вы уже отправили заявку."
	default:
		return "Не получилось отправить заявку, попробуйте позже."
	}
}

func decisionErrorText(err error) string {
	switch {
	case errors.Is(err, membership.ErrNotFound):
		return "Заявка не найдена"
	case errors.Is(err, membership.ErrNotActive):
		return "Заявка уже рассмотрена"
	case errors.Is(err, membership.ErrAlreadyMember):
		return "Пользователь уже зарегистрирован, заявка устарела"
	default:
		return "Ошибка, попробуйте позже"
	}
}
