package admins

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/otryad/join-bot/internal/store"
)

var columns = []string{"id", "username", "password_hash", "created_at"}

type Repo struct {
	m *store.Manager[Admin]
}

func NewRepo() *Repo {
	return &Repo{m: store.NewManager[Admin]("admins", columns)}
}

func (r *Repo) Create(ctx context.Context, username, password string) (*Admin, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return r.m.Create(ctx, map[string]any{
		"username":      username,
		"password_hash": string(hash),
	})
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (*Admin, error) {
	return r.m.GetByField(ctx, "username", username)
}

// Authenticate возвращает админа при совпадении пароля, иначе nil.
func (r *Repo) Authenticate(ctx context.Context, username, password string) (*Admin, error) {
	adm, err := r.GetByUsername(ctx, username)
	if err != nil || adm == nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(adm.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}
	return adm, nil
}
