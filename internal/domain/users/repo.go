package users

import (
	"context"

	"github.com/otryad/join-bot/internal/store"
)

var columns = []string{
	"id", "full_name", "phone_number", "telegram_id", "telegram_user_name",
	"is_active", "is_admin", "status", "created_at", "updated_at",
}

type Repo struct {
	m *store.Manager[User]
}

func NewRepo() *Repo {
	return &Repo{m: store.NewManager[User]("users", columns)}
}

func (r *Repo) Create(ctx context.Context, fullName, phone string, tgID int64, tgUserName string) (*User, error) {
	return r.m.Create(ctx, map[string]any{
		"full_name":          fullName,
		"phone_number":       phone,
		"telegram_id":        tgID,
		"telegram_user_name": tgUserName,
	})
}

func (r *Repo) Get(ctx context.Context, id int64) (*User, error) {
	return r.m.Get(ctx, id)
}

func (r *Repo) GetByTelegramID(ctx context.Context, tgID int64) (*User, error) {
	return r.m.GetByField(ctx, "telegram_id", tgID)
}

func (r *Repo) ExistsByTelegramID(ctx context.Context, tgID int64) (bool, error) {
	return r.m.Exists(ctx, map[string]any{"telegram_id": tgID})
}

func (r *Repo) SetAdmin(ctx context.Context, id int64, isAdmin bool) (*User, error) {
	return r.m.Update(ctx, id, map[string]any{"is_admin": isAdmin})
}

func (r *Repo) All(ctx context.Context) ([]User, error) {
	return r.m.Filter(ctx, nil)
}

func (r *Repo) Count(ctx context.Context) (int64, error) {
	return r.m.Count(ctx)
}
