package api

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/otryad/join-bot/internal/domain/applications"
	"github.com/otryad/join-bot/internal/domain/membership"
	"github.com/otryad/join-bot/internal/domain/users"
	"github.com/otryad/join-bot/internal/store"
)

// Workflow — срез сервиса membership, нужный REST-слою.
type Workflow interface {
	Submit(ctx context.Context, req membership.SubmitRequest) (*applications.Application, error)
	Accept(ctx context.Context, id int64) (*applications.Application, error)
	Reject(ctx context.Context, id int64) (*applications.Application, error)
	ApplicationsByStatus(ctx context.Context, st applications.Status) ([]applications.Application, error)
}

type UserDirectory interface {
	GetByTelegramID(ctx context.Context, tgID int64) (*users.User, error)
	ExistsByTelegramID(ctx context.Context, tgID int64) (bool, error)
}

type API struct {
	log      *slog.Logger
	pool     store.Beginner
	botToken string
	flow     Workflow
	users    UserDirectory
}

func New(log *slog.Logger, pool store.Beginner, botToken string, flow Workflow, users UserDirectory) *API {
	return &API{log: log, pool: pool, botToken: botToken, flow: flow, users: users}
}

// Routes — поддерево /api. Порядок middleware повторяет вложенность
// роутеров оригинала: единица работы -> подпись -> пользователь -> админ.
func (a *API) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(store.Middleware(a.pool, a.log))
	r.Use(a.checkTelegram)

	r.Post("/application", a.submitApplication)
	r.Get("/users/check/{telegram_id}", a.checkUser)

	r.Group(func(r chi.Router) {
		r.Use(a.requireUser)
		r.Get("/users/me", a.me)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(a.requireUser, a.requireAdmin)
		r.Get("/applications", a.listApplications)
		r.Patch("/application/{id}", a.decideApplication)
	})

	return r
}
