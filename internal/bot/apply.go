package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/otryad/join-bot/internal/dialog"
	"github.com/otryad/join-bot/internal/domain/membership"
)

// Анкета в чате: ФИО -> телефон -> подтверждение. Каждый шаг
// сохраняется в dialog_states, так что анкета переживает рестарт бота.

func (b *Bot) startApplyDialog(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	chatID := cb.Message.Chat.ID
	tgID := cb.From.ID

	u, err := b.users.GetByTelegramID(ctx, tgID)
	if err != nil {
		return err
	}
	if u != nil {
		b.answerCallback(cb, "Вы уже участник", true)
		return nil
	}
	active, err := b.apps.HasActive(ctx, tgID)
	if err != nil {
		return err
	}
	if active {
		b.answerCallback(cb, "Заявка уже на рассмотрении", true)
		return nil
	}

	if err := b.states.Set(ctx, chatID, dialog.StateAwaitFIO, dialog.Payload{}); err != nil {
		return err
	}
	b.answerCallback(cb, "", false)
	b.askFIO(chatID)
	return nil
}

func (b *Bot) askFIO(chatID int64) {
	m := tgbotapi.NewMessage(chatID, "Введите, пожалуйста, ФИО одной строкой.")
	m.ReplyMarkup = navKeyboard(false, true)
	b.send(m)
}

func (b *Bot) askPhone(chatID int64) {
	m := tgbotapi.NewMessage(chatID, "Теперь номер телефона.")
	m.ReplyMarkup = navKeyboard(false, true)
	b.send(m)
}

func (b *Bot) handleDialogInput(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	st, err := b.states.Get(ctx, chatID)
	if err != nil {
		return err
	}

	switch st.State {
	case dialog.StateAwaitFIO:
		fio := strings.TrimSpace(msg.Text)
		if fio == "" || len([]rune(fio)) < 3 {
			b.send(tgbotapi.NewMessage(chatID, "Слишком коротко. Введите ФИО одной строкой."))
			return nil
		}
		st.Payload["full_name"] = fio
		if err := b.states.Set(ctx, chatID, dialog.StateAwaitPhone, st.Payload); err != nil {
			return err
		}
		b.askPhone(chatID)
		return nil

	case dialog.StateAwaitPhone:
		phone := strings.TrimSpace(msg.Text)
		if len(phone) < 5 {
			b.send(tgbotapi.NewMessage(chatID, "Это не похоже на номер телефона, попробуйте ещё раз."))
			return nil
		}
		st.Payload["phone_number"] = phone
		if err := b.states.Set(ctx, chatID, dialog.StateAwaitConfirm, st.Payload); err != nil {
			return err
		}
		fio, _ := dialog.GetString(st.Payload, "full_name")
		m := tgbotapi.NewMessage(chatID, fmt.Sprintf(
			"Проверьте анкету:\nФИО: %s\nТелефон: %s", fio, phone))
		m.ReplyMarkup = confirmKeyboard()
		b.send(m)
		return nil
	}
	return nil
}

func (b *Bot) submitForm(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	chatID := cb.Message.Chat.ID
	st, err := b.states.Get(ctx, chatID)
	if err != nil {
		return err
	}
	if st.State != dialog.StateAwaitConfirm {
		b.answerCallback(cb, "Анкета не заполнена", true)
		return nil
	}

	fio, _ := dialog.GetString(st.Payload, "full_name")
	phone, _ := dialog.GetString(st.Payload, "phone_number")

	_, err = b.flow.Submit(ctx, membership.SubmitRequest{
		FullName:         fio,
		PhoneNumber:      phone,
		TelegramID:       cb.From.ID,
		TelegramUserName: cb.From.UserName,
	})
	if err != nil {
		b.answerCallback(cb, submitErrorText(err), true)
		return nil
	}

	if err := b.states.Reset(ctx, chatID); err != nil {
		return err
	}
	b.editTextAndClear(chatID, cb.Message.MessageID, "📨 Анкета отправлена админам.")
	b.answerCallback(cb, "", false)
	return nil
}
