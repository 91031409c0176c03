package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/otryad/join-bot/internal/domain/applications"
	"github.com/otryad/join-bot/internal/domain/users"
)

func TestWorkbook(t *testing.T) {
	created := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)
	members := []users.User{
		{ID: 1, FullName: "Иван Петров", PhoneNumber: "+79990001122", TelegramID: 42,
			TelegramUserName: "ivanp", IsActive: true, Status: users.StatusCandidate, CreatedAt: created},
	}
	apps := []applications.Application{
		{ID: 3, FullName: "Пётр Сидоров", TelegramID: 77, Status: applications.StatusActive, CreatedAt: created},
	}

	f, err := Workbook(members, apps)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{"Участники", "Заявки"}, f.GetSheetList())

	v, err := f.GetCellValue("Участники", "B2")
	require.NoError(t, err)
	require.Equal(t, "Иван Петров", v)

	v, err = f.GetCellValue("Участники", "I2")
	require.NoError(t, err)
	require.Equal(t, "2025-03-14 10:30", v)

	v, err = f.GetCellValue("Заявки", "F2")
	require.NoError(t, err)
	require.Equal(t, "active", v)
}

func TestWorkbook_Empty(t *testing.T) {
	f, err := Workbook(nil, nil)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("Заявки", "A1")
	require.NoError(t, err)
	require.Equal(t, "id", v)
}
