// Package report собирает xlsx-выгрузку участников и заявок.
// Используется и админской командой бота, и веб-панелью.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/otryad/join-bot/internal/domain/applications"
	"github.com/otryad/join-bot/internal/domain/users"
)

const timeLayout = "2006-01-02 15:04"

func Workbook(members []users.User, apps []applications.Application) (*excelize.File, error) {
	f := excelize.NewFile()

	const usersSheet = "Участники"
	if err := f.SetSheetName("Sheet1", usersSheet); err != nil {
		return nil, err
	}
	header := []any{"id", "ФИО", "Телефон", "telegram_id", "username", "Активен", "Админ", "Статус", "Создан"}
	if err := f.SetSheetRow(usersSheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, u := range members {
		row := []any{
			u.ID, u.FullName, u.PhoneNumber, u.TelegramID, u.TelegramUserName,
			u.IsActive, u.IsAdmin, u.Status, u.CreatedAt.Format(timeLayout),
		}
		if err := f.SetSheetRow(usersSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, err
		}
	}

	const appsSheet = "Заявки"
	if _, err := f.NewSheet(appsSheet); err != nil {
		return nil, err
	}
	header = []any{"id", "ФИО", "Телефон", "telegram_id", "username", "Статус", "Создана"}
	if err := f.SetSheetRow(appsSheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, a := range apps {
		row := []any{
			a.ID, a.FullName, a.PhoneNumber, a.TelegramID, a.TelegramUserName,
			string(a.Status), a.CreatedAt.Format(timeLayout),
		}
		if err := f.SetSheetRow(appsSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, err
		}
	}

	return f, nil
}
