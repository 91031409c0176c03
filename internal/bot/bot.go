package bot

import (
	"context"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/otryad/join-bot/internal/dialog"
	"github.com/otryad/join-bot/internal/domain/applications"
	"github.com/otryad/join-bot/internal/domain/membership"
	"github.com/otryad/join-bot/internal/domain/users"
	"github.com/otryad/join-bot/internal/store"
)

type Bot struct {
	api       *tgbotapi.BotAPI
	log       *slog.Logger
	pool      store.Beginner
	flow      *membership.Service
	users     *users.Repo
	apps      *applications.Repo
	states    *dialog.Repo
	adminChat int64
	webAppURL string
}

func New(api *tgbotapi.BotAPI, log *slog.Logger, pool store.Beginner,
	flow *membership.Service, usersRepo *users.Repo, appsRepo *applications.Repo,
	statesRepo *dialog.Repo, adminChatID int64, webAppURL string) *Bot {

	return &Bot{
		api: api, log: log, pool: pool, flow: flow,
		users: usersRepo, apps: appsRepo, states: statesRepo,
		adminChat: adminChatID, webAppURL: webAppURL,
	}
}

// Run крутит long polling до отмены контекста. Альтернатива — вебхук,
// см. WebhookHandler.
func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case upd := <-updates:
			b.HandleUpdate(ctx, upd)
		}
	}
}

// HandleUpdate обрабатывает один апдейт в собственной единице работы:
// коммит при успехе, откат при ошибке. Паника гасится здесь же,
// цикл бота из-за одного кривого апдейта не умирает.
func (b *Bot) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("panic in update handler", "err", r)
		}
	}()

	err := store.Run(ctx, b.pool, func(ctx context.Context) error {
		switch {
		case upd.Message != nil:
			return b.onMessage(ctx, upd.Message)
		case upd.CallbackQuery != nil:
			return b.onCallback(ctx, upd.CallbackQuery)
		}
		return nil
	})
	if err != nil {
		b.log.Error("update failed", "err", err)
	}
}

// SetWebhook регистрирует вебхук на /bot/<token>; secret_token Telegram
// потом присылает в заголовке каждого пуша.
func (b *Bot) SetWebhook(baseURL, secret string) error {
	params := tgbotapi.Params{
		"url":                  strings.TrimRight(baseURL, "/") + "/bot/" + b.api.Token,
		"drop_pending_updates": "true",
		"allowed_updates":      `["message","callback_query"]`,
	}
	if secret != "" {
		params["secret_token"] = secret
	}
	_, err := b.api.MakeRequest("setWebhook", params)
	return err
}

func (b *Bot) DeleteWebhook() error {
	_, err := b.api.MakeRequest("deleteWebhook", tgbotapi.Params{"drop_pending_updates": "true"})
	return err
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}

func (b *Bot) answerCallback(cb *tgbotapi.CallbackQuery, text string, alert bool) {
	resp := tgbotapi.NewCallback(cb.ID, text)
	resp.ShowAlert = alert
	if _, err := b.api.Request(resp); err != nil {
		b.log.Error("answer callback failed", "err", err)
	}
}
