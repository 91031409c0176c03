package applications

import (
	"context"

	"github.com/otryad/join-bot/internal/store"
)

var columns = []string{
	"id", "full_name", "phone_number", "telegram_id", "telegram_user_name",
	"status", "created_at",
}

type Repo struct {
	m *store.Manager[Application]
}

func NewRepo() *Repo {
	return &Repo{m: store.NewManager[Application]("applications", columns)}
}

func (r *Repo) Create(ctx context.Context, fullName, phone string, tgID int64, tgUserName string) (*Application, error) {
	return r.m.Create(ctx, map[string]any{
		"full_name":          fullName,
		"phone_number":       phone,
		"telegram_id":        tgID,
		"telegram_user_name": tgUserName,
	})
}

func (r *Repo) Get(ctx context.Context, id int64) (*Application, error) {
	return r.m.Get(ctx, id)
}

// HasActive отвечает, висит ли по этому telegram_id нерассмотренная заявка.
func (r *Repo) HasActive(ctx context.Context, tgID int64) (bool, error) {
	return r.m.Exists(ctx, map[string]any{
		"telegram_id": tgID,
		"status":      string(StatusActive),
	})
}

func (r *Repo) SetStatus(ctx context.Context, id int64, st Status) (*Application, error) {
	return r.m.Update(ctx, id, map[string]any{"status": string(st)})
}

func (r *Repo) ListByStatus(ctx context.Context, st Status) ([]Application, error) {
	return r.m.Filter(ctx, map[string]any{"status": string(st)})
}

func (r *Repo) All(ctx context.Context) ([]Application, error) {
	return r.m.Filter(ctx, nil)
}

func (r *Repo) Count(ctx context.Context) (int64, error) {
	return r.m.Count(ctx)
}
