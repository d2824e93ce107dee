package bot

import (
	"context"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/raselahmed/eee24bot/internal/dialog"
	"github.com/raselahmed/eee24bot/internal/domain/members"
	"github.com/raselahmed/eee24bot/internal/domain/submissions"
	"github.com/raselahmed/eee24bot/internal/infra/metrics"
	"github.com/raselahmed/eee24bot/internal/moderation"
)

const (
	browseLimit  = 10
	myFilesLimit = 20
)

type Bot struct {
	api        *tgbotapi.BotAPI
	log        *slog.Logger
	members    *members.Repo
	subs       *submissions.Repo
	states     *dialog.Repo
	mod        *moderation.Service
	adminChat  int64
	batch      string
	chatLink   string
	sessionTTL time.Duration
	disp       *dispatcher
}

func New(api *tgbotapi.BotAPI, log *slog.Logger,
	membersRepo *members.Repo, subsRepo *submissions.Repo, statesRepo *dialog.Repo,
	adminChatID int64, currentBatch, chatLink string, sessionTTL time.Duration) *Bot {

	b := &Bot{
		api: api, log: log,
		members: membersRepo, subs: subsRepo, states: statesRepo,
		adminChat: adminChatID, batch: currentBatch, chatLink: chatLink,
		sessionTTL: sessionTTL,
	}
	b.mod = moderation.New(membersRepo, subsRepo, b, log)
	b.disp = newDispatcher()
	return b
}

// Run consumes updates until ctx is cancelled. Updates for one chat are
// handled strictly in arrival order; different chats run concurrently.
func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)

	sweep := time.NewTicker(time.Minute)
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			b.disp.wait()
			return ctx.Err()
		case <-sweep.C:
			n, err := b.states.DeleteIdle(ctx, b.sessionTTL)
			if err != nil {
				b.log.Error("session sweep failed", "err", err)
				continue
			}
			if n > 0 {
				metrics.SessionsExpired.Add(float64(n))
				b.log.Debug("expired idle sessions", "count", n)
			}
		case upd := <-updates:
			chatID := updateChatID(upd)
			if chatID == 0 {
				continue
			}
			b.disp.submit(chatID, func() {
				b.handleUpdate(ctx, chatID, upd)
			})
		}
	}
}

// handleUpdate is the dispatch boundary: nothing below it may take the
// process down.
func (b *Bot) handleUpdate(ctx context.Context, chatID int64, upd tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("handler panic", "chat", chatID, "panic", r)
			b.send(tgbotapi.NewMessage(chatID, "⚠️ Something went wrong. Please try again."))
		}
	}()

	switch {
	case upd.Message != nil:
		metrics.UpdatesTotal.WithLabelValues("message").Inc()
		b.onMessage(ctx, upd.Message)
	case upd.CallbackQuery != nil:
		metrics.UpdatesTotal.WithLabelValues("callback").Inc()
		b.onCallback(ctx, upd.CallbackQuery)
	}
}

// Notify implements moderation.Notifier.
func (b *Bot) Notify(chatID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}

func updateChatID(upd tgbotapi.Update) int64 {
	switch {
	case upd.Message != nil:
		return upd.Message.Chat.ID
	case upd.CallbackQuery != nil && upd.CallbackQuery.Message != nil:
		return upd.CallbackQuery.Message.Chat.ID
	}
	return 0
}
