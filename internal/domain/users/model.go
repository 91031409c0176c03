package users

import "time"

// StatusCandidate — статус нового участника по умолчанию.
const StatusCandidate = "Кандидат"

// User — принятый участник. Создаётся только при одобрении заявки,
// telegram_id уникален на уровне базы.
type User struct {
	ID               int64     `db:"id"`
	FullName         string    `db:"full_name"`
	PhoneNumber      string    `db:"phone_number"`
	TelegramID       int64     `db:"telegram_id"`
	TelegramUserName string    `db:"telegram_user_name"`
	IsActive         bool      `db:"is_active"`
	IsAdmin          bool      `db:"is_admin"`
	Status           string    `db:"status"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}
