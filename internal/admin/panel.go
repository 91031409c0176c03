// Package admin — веб-панель: логин по паре username/password из таблицы
// admins и ручное управление заявками. Учётки панели намеренно независимы
// от users.is_admin — это разные роли.
package admin

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/otryad/join-bot/internal/domain/admins"
	"github.com/otryad/join-bot/internal/domain/applications"
	"github.com/otryad/join-bot/internal/domain/membership"
	"github.com/otryad/join-bot/internal/domain/users"
	"github.com/otryad/join-bot/internal/report"
	"github.com/otryad/join-bot/internal/store"
)

//go:embed templates/*.tmpl
var tmplFS embed.FS

const cookieName = "admin_session"

type Panel struct {
	log      *slog.Logger
	pool     store.Beginner
	flow     *membership.Service
	users    *users.Repo
	apps     *applications.Repo
	admins   *admins.Repo
	sessions *Sessions
	tmpl     *template.Template
}

func NewPanel(log *slog.Logger, pool store.Beginner, flow *membership.Service,
	usersRepo *users.Repo, appsRepo *applications.Repo, adminsRepo *admins.Repo,
	sessionTTL time.Duration) *Panel {

	return &Panel{
		log: log, pool: pool, flow: flow,
		users: usersRepo, apps: appsRepo, admins: adminsRepo,
		sessions: NewSessions(sessionTTL),
		tmpl:     template.Must(template.ParseFS(tmplFS, "templates/*.tmpl")),
	}
}

// Routes — поддерево /admin.
func (p *Panel) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(store.Middleware(p.pool, p.log))

	r.Get("/login", p.loginForm)
	r.Post("/login", p.login)
	r.Post("/logout", p.logout)

	r.Group(func(r chi.Router) {
		r.Use(p.requireAuth)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/admin/applications", http.StatusSeeOther)
		})
		r.Get("/applications", p.applicationsPage)
		r.Post("/applications/{id}/accept", p.accept)
		r.Post("/applications/{id}/reject", p.reject)
		r.Get("/users", p.usersPage)
		r.Get("/export.xlsx", p.export)
	})
	return r
}

func (p *Panel) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(cookieName)
		if err != nil {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		if _, ok := p.sessions.Get(c.Value); !ok {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (p *Panel) loginForm(w http.ResponseWriter, r *http.Request) {
	p.render(w, "login.tmpl", map[string]any{"Error": ""})
}

func (p *Panel) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	adm, err := p.admins.Authenticate(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		p.log.Error("admin auth failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if adm == nil {
		w.WriteHeader(http.StatusUnauthorized)
		p.render(w, "login.tmpl", map[string]any{"Error": "Неверный логин или пароль"})
		return
	}

	token, err := p.sessions.Create(adm.Username)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/admin",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/admin/applications", http.StatusSeeOther)
}

func (p *Panel) logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(cookieName); err == nil {
		p.sessions.Delete(c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name: cookieName, Value: "", Path: "/admin", HttpOnly: true, MaxAge: -1,
	})
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

func (p *Panel) applicationsPage(w http.ResponseWriter, r *http.Request) {
	status := applications.Status(r.URL.Query().Get("status"))
	if status == "" {
		status = applications.StatusActive
	}
	apps, err := p.apps.ListByStatus(r.Context(), status)
	if err != nil {
		p.log.Error("list applications failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	p.render(w, "applications.tmpl", map[string]any{
		"Status":       string(status),
		"Applications": apps,
	})
}

func (p *Panel) usersPage(w http.ResponseWriter, r *http.Request) {
	members, err := p.users.All(r.Context())
	if err != nil {
		p.log.Error("list users failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	p.render(w, "users.tmpl", map[string]any{"Users": members})
}

func (p *Panel) accept(w http.ResponseWriter, r *http.Request) {
	p.decide(w, r, p.flow.Accept)
}

func (p *Panel) reject(w http.ResponseWriter, r *http.Request) {
	p.decide(w, r, p.flow.Reject)
}

func (p *Panel) decide(w http.ResponseWriter, r *http.Request,
	fn func(ctx context.Context, id int64) (*applications.Application, error)) {

	id, err := parseID(r)
	if err != nil || id <= 0 {
		http.Error(w, "заявка не найдена", http.StatusNotFound)
		return
	}
	if _, err := fn(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, membership.ErrNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, membership.ErrNotActive), errors.Is(err, membership.ErrAlreadyMember):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			p.log.Error("decision failed", "id", id, "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}
	redirectBack(w, r, "/admin/applications")
}

func redirectBack(w http.ResponseWriter, r *http.Request, fallback string) {
	ref := r.Header.Get("Referer")
	if ref == "" {
		ref = fallback
	}
	http.Redirect(w, r, ref, http.StatusSeeOther)
}

func (p *Panel) export(w http.ResponseWriter, r *http.Request) {
	members, err := p.users.All(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	apps, err := p.apps.All(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	f, err := report.Workbook(members, apps)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="members.xlsx"`)
	if err := f.Write(w); err != nil {
		p.log.Error("xlsx write failed", "err", err)
	}
}

func (p *Panel) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := p.tmpl.ExecuteTemplate(w, name, data); err != nil {
		p.log.Error("template render failed", "tmpl", name, "err", err)
	}
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
