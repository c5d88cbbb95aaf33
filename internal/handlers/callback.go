package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nikitkaralius/pollbot/internal/keyboard"
	log "github.com/sirupsen/logrus"
)

// HandleCallback handles inline button presses.
func (h *Handler) HandleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback == nil || callback.From == nil || callback.Data == "" {
		return
	}
	logger := log.WithFields(log.Fields{"user_id": callback.From.ID, "data": callback.Data})

	pollID, ok := keyboard.ParseOptionDone(callback.Data)
	if !ok {
		logger.Debug("unknown callback data")
		if err := h.sender.AnswerCallback(ctx, callback.ID, ""); err != nil {
			logger.WithError(err).Warn("failed to answer callback")
		}
		return
	}

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

	voter, err := sess.Voter(ctx, callback.From)
	if err != nil {
		logger.WithError(err).Error("failed to load voter")
		return
	}
	if voter.CurrentPollID != nil && *voter.CurrentPollID == pollID {
		voter.Reset()
		if err := sess.SaveVoter(ctx, voter); err != nil {
			logger.WithError(err).Error("failed to save voter")
			return
		}
	}
	if err := sess.Commit(ctx); err != nil {
		logger.WithError(err).Error("failed to commit session")
		return
	}

	if err := h.sender.AnswerCallback(ctx, callback.ID, ""); err != nil {
		logger.WithError(err).Warn("failed to answer callback")
	}

	chatID := callback.From.ID
	if callback.Message != nil && callback.Message.Chat != nil {
		chatID = callback.Message.Chat.ID
	}
	if err := h.send(ctx, chatID, h.catalog.T("creation.option.finished", voter.Locale), keyboard.Main()); err != nil {
		logger.WithError(err).Error("failed to send reply")
	}
}
