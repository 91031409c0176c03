package membership

import "errors"

// Бизнес-ошибки воркфлоу. На HTTP-границе транслируются в 4xx,
// в боте — в тексты ответов; процесс из-за них не падает.
var (
	ErrAlreadyMember        = errors.New("пользователь уже зарегистрирован")
	ErrDuplicateApplication = errors.New("заявка уже отправлена")
	ErrNotFound             = errors.New("заявка не найдена")
	ErrNotActive            = errors.New("заявка не активна")
)
