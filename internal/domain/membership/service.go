package membership

import (
	"context"
	"log/slog"

	"github.com/otryad/join-bot/internal/domain/applications"
	"github.com/otryad/join-bot/internal/domain/users"
	"github.com/otryad/join-bot/internal/infra/metrics"
	"github.com/otryad/join-bot/internal/store"
)

type ApplicationStore interface {
	Create(ctx context.Context, fullName, phone string, tgID int64, tgUserName string) (*applications.Application, error)
	Get(ctx context.Context, id int64) (*applications.Application, error)
	HasActive(ctx context.Context, tgID int64) (bool, error)
	SetStatus(ctx context.Context, id int64, st applications.Status) (*applications.Application, error)
	ListByStatus(ctx context.Context, st applications.Status) ([]applications.Application, error)
}

type UserStore interface {
	Create(ctx context.Context, fullName, phone string, tgID int64, tgUserName string) (*users.User, error)
	ExistsByTelegramID(ctx context.Context, tgID int64) (bool, error)
}

// Notifier — исходящие сообщения в Telegram. Ошибки отправки логируются
// на стороне реализации и не влияют на исход операции.
type Notifier interface {
	NotifyAdmins(ctx context.Context, app *applications.Application)
	NotifyApplicant(ctx context.Context, telegramID int64, text string)
}

type SubmitRequest struct {
	FullName         string
	PhoneNumber      string
	TelegramID       int64
	TelegramUserName string
}

// Service — воркфлоу заявки: submit -> accept | reject.
// Все чтения/записи идут через единицу работы текущего запроса.
type Service struct {
	log    *slog.Logger
	apps   ApplicationStore
	users  UserStore
	notify Notifier
}

func NewService(log *slog.Logger, apps ApplicationStore, us UserStore, notify Notifier) *Service {
	return &Service{log: log, apps: apps, users: us, notify: notify}
}

// Submit создаёт заявку, если пользователь ещё не участник и активной
// заявки по его telegram_id нет. Гонка двух одновременных submit
// разрешается частичным уникальным индексом по (telegram_id) WHERE
// status='active': проигравший получает ErrDuplicateApplication.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*applications.Application, error) {
	exists, err := s.users.ExistsByTelegramID(ctx, req.TelegramID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyMember
	}

	active, err := s.apps.HasActive(ctx, req.TelegramID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, ErrDuplicateApplication
	}

	app, err := s.apps.Create(ctx, req.FullName, req.PhoneNumber, req.TelegramID, req.TelegramUserName)
	if err != nil {
		if store.IsUniqueViolation(err) {
			return nil, ErrDuplicateApplication
		}
		return nil, err
	}

	s.notify.NotifyAdmins(ctx, app)
	s.notify.NotifyApplicant(ctx, app.TelegramID,
		"✅ Заявка отправлена\nВам придёт уведомление, когда заявка будет рассмотрена")
	metrics.ApplicationsSubmitted.Inc()
	s.log.Info("application submitted", "id", app.ID, "telegram_id", app.TelegramID)
	return app, nil
}

// Accept одобряет активную заявку: создаёт участника с данными заявителя
// и переводит заявку в accept. Если участник с таким telegram_id уже есть,
// заявка устарела — переводится в reject, вызывающий получает ErrAlreadyMember.
func (s *Service) Accept(ctx context.Context, id int64) (*applications.Application, error) {
	app, err := s.apps.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, ErrNotFound
	}
	if !app.IsActive() {
		return nil, ErrNotActive
	}

	exists, err := s.users.ExistsByTelegramID(ctx, app.TelegramID)
	if err != nil {
		return nil, err
	}
	if exists {
		if _, err := s.apps.SetStatus(ctx, app.ID, applications.StatusReject); err != nil {
			return nil, err
		}
		return nil, ErrAlreadyMember
	}

	if _, err := s.users.Create(ctx, app.FullName, app.PhoneNumber, app.TelegramID, app.TelegramUserName); err != nil {
		// Гонка двух accept по одному telegram_id: уникальный индекс
		// users(telegram_id) срабатывает у проигравшего. Транзакция после
		// этой ошибки уже неисправна, дальше только откат.
		if store.IsUniqueViolation(err) {
			return nil, ErrAlreadyMember
		}
		return nil, err
	}

	app, err = s.apps.SetStatus(ctx, app.ID, applications.StatusAccept)
	if err != nil {
		return nil, err
	}

	s.notify.NotifyApplicant(ctx, app.TelegramID,
		"✅ Ваша заявка на вступление принята\n⬇️ Заходите в приложение")
	metrics.ApplicationsAccepted.Inc()
	s.log.Info("application accepted", "id", app.ID, "telegram_id", app.TelegramID)
	return app, nil
}

// Reject отклоняет активную заявку.
func (s *Service) Reject(ctx context.Context, id int64) (*applications.Application, error) {
	app, err := s.apps.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, ErrNotFound
	}
	if !app.IsActive() {
		return nil, ErrNotActive
	}

	app, err = s.apps.SetStatus(ctx, app.ID, applications.StatusReject)
	if err != nil {
		return nil, err
	}

	s.notify.NotifyApplicant(ctx, app.TelegramID,
		"❌ К сожалению, ваша заявка на вступление отклонена")
	metrics.ApplicationsRejected.Inc()
	s.log.Info("application rejected", "id", app.ID, "telegram_id", app.TelegramID)
	return app, nil
}

func (s *Service) ApplicationsByStatus(ctx context.Context, st applications.Status) ([]applications.Application, error) {
	return s.apps.ListByStatus(ctx, st)
}
