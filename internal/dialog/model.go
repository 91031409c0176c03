package dialog

type State string

const (
	StateIdle State = "idle"

	// Анкета заявки на вступление
	StateAwaitFIO     State = "await_fio"
	StateAwaitPhone   State = "await_phone"
	StateAwaitConfirm State = "await_confirm" // сводка анкеты, кнопка «Отправить»
)

type Payload map[string]any

type Item struct {
	ChatID  int64
	State   State
	Payload Payload
}
