package handlers

import (
	"context"
	"errors"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nikitkaralius/pollbot/internal/i18n"
	"github.com/nikitkaralius/pollbot/internal/messenger"
	"github.com/nikitkaralius/pollbot/internal/polls"
	log "github.com/sirupsen/logrus"
)

// resultsPacing is the pause after every results chunk. It keeps long result
// listings under Telegram's per-chat rate limit.
const resultsPacing = time.Second

type Config struct {
	Sessions     SessionFactory
	Sender       messenger.Sender
	Catalog      *i18n.Catalog
	PollsService polls.Service
	Dates        DateResolver // optional
	BotUsername  string
}

type Handler struct {
	sessions     SessionFactory
	sender       messenger.Sender
	catalog      *i18n.Catalog
	pollsService polls.Service
	dates        DateResolver
	botUsername  string

	pause func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

func NewHandler(cfg Config) *Handler {
	return &Handler{
		sessions:     cfg.Sessions,
		sender:       cfg.Sender,
		catalog:      cfg.Catalog,
		pollsService: cfg.PollsService,
		dates:        cfg.Dates,
		botUsername:  cfg.BotUsername,
		pause:        sleep,
		now:          time.Now,
	}
}

// HandleUpdate dispatches one Telegram update.
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		h.HandleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		h.HandleCallback(ctx, update.CallbackQuery)
	}
}

// send delivers a Markdown message without link previews.
func (h *Handler) send(ctx context.Context, chatID int64, text string, markup any) error {
	return h.sender.Send(ctx, messenger.Message{
		ChatID:         chatID,
		Text:           text,
		ParseMode:      tgbotapi.ModeMarkdown,
		ReplyMarkup:    markup,
		DisablePreview: true,
	})
}

// sendRetryOnTimeout sends msg and repeats it exactly once if the first
// attempt timed out.
func (h *Handler) sendRetryOnTimeout(ctx context.Context, msg messenger.Message) error {
	err := h.sender.Send(ctx, msg)
	if errors.Is(err, messenger.ErrTimeout) {
		log.WithField("chat_id", msg.ChatID).WithError(err).Warn("send timed out, retrying once")
		err = h.sender.Send(ctx, msg)
	}
	return err
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
