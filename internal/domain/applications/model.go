package applications

import "time"

type Status string

const (
	StatusActive Status = "active"
	StatusAccept Status = "accept"
	StatusReject Status = "reject"
)

// Application — заявка на вступление. Жизненный цикл: active -> accept | reject,
// из терминального статуса переходов нет, физически заявки не удаляются.
type Application struct {
	ID               int64     `db:"id"`
	FullName         string    `db:"full_name"`
	PhoneNumber      string    `db:"phone_number"`
	TelegramID       int64     `db:"telegram_id"`
	TelegramUserName string    `db:"telegram_user_name"`
	Status           Status    `db:"status"`
	CreatedAt        time.Time `db:"created_at"`
}

func (a *Application) IsActive() bool { return a.Status == StatusActive }
