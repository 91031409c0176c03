package admins

import "time"

// Admin — учётка веб-панели. Независима от users.is_admin:
// флаг отвечает за действия в боте и API, эта таблица — только за вход в панель.
type Admin struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}
