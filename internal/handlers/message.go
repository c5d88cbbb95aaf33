package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nikitkaralius/pollbot/internal/keyboard"
	"github.com/nikitkaralius/pollbot/internal/voters"
	log "github.com/sirupsen/logrus"
)

// HandleMessage runs one private message inside its own session. A non-empty
// text returned by a handler is sent back as the reply after the session is
// committed.
func (h *Handler) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat == nil || msg.From == nil || !msg.Chat.IsPrivate() || msg.Text == "" {
		return
	}
	logger := log.WithFields(log.Fields{"chat_id": msg.Chat.ID, "user_id": msg.From.ID})

	sess, err := h.sessions(ctx)
	if err != nil {
		logger.WithError(err).Error("failed to open session")
		return
	}
	defer func() {
		if err := sess.Rollback(ctx); err != nil {
			logger.WithError(err).Error("failed to release session")
		}
	}()

	voter, err := sess.Voter(ctx, msg.From)
	if err != nil {
		logger.WithError(err).Error("failed to load voter")
		return
	}

	reply, err := h.route(ctx, sess, voter, msg)
	if err != nil {
		logger.WithError(err).Error("failed to handle message")
		return
	}
	if err := sess.Commit(ctx); err != nil {
		logger.WithError(err).Error("failed to commit session")
		return
	}
	if reply != "" {
		if err := h.send(ctx, msg.Chat.ID, reply, nil); err != nil {
			logger.WithError(err).Error("failed to send reply")
		}
	}
}

func (h *Handler) route(ctx context.Context, sess Session, voter *voters.Voter, msg *tgbotapi.Message) (string, error) {
	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			return h.Start(ctx, sess, voter, msg)
		case "help":
			return "", h.Help(ctx, msg.Chat.ID)
		case "donations", "donate":
			return "", h.Donation(ctx, msg.Chat.ID)
		case "delete":
			return h.Delete(ctx, sess, voter, msg)
		}
		return "", nil
	}

	switch msg.Text {
	case keyboard.HelpButton:
		return "", h.Help(ctx, msg.Chat.ID)
	case keyboard.DonationsButton:
		return "", h.Donation(ctx, msg.Chat.ID)
	}

	if voter.ExpectedInput == voters.NewUserOption {
		return h.AddOptions(ctx, sess, voter, msg)
	}
	return "", nil
}
