package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/otryad/join-bot/internal/report"
)

// handleExport отправляет админу xlsx со всеми участниками и заявками.
func (b *Bot) handleExport(ctx context.Context, chatID int64) error {
	members, err := b.users.All(ctx)
	if err != nil {
		return err
	}
	apps, err := b.apps.All(ctx)
	if err != nil {
		return err
	}

	f, err := report.Workbook(members, apps)
	if err != nil {
		return err
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return err
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  "members.xlsx",
		Bytes: buf.Bytes(),
	})
	doc.Caption = "Выгрузка участников и заявок"
	b.send(doc)
	return nil
}
