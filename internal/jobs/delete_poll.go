package jobs

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nikitkaralius/pollbot/internal/display"
	"github.com/nikitkaralius/pollbot/internal/i18n"
	"github.com/nikitkaralius/pollbot/internal/messenger"
	"github.com/nikitkaralius/pollbot/internal/polls"
	"github.com/riverqueue/river"
	log "github.com/sirupsen/logrus"
)

// Session is the part of the unit of work the deletion job needs.
type Session interface {
	DeletePoll(ctx context.Context, pollID int64) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type SessionFactory func(ctx context.Context) (Session, error)

type DeletePollWorker struct {
	river.WorkerDefaults[polls.DeletePollArgs]
	sessions SessionFactory
	sender   messenger.Sender
	catalog  *i18n.Catalog
}

func NewDeletePollWorker(sessions SessionFactory, sender messenger.Sender, catalog *i18n.Catalog) *DeletePollWorker {
	return &DeletePollWorker{sessions: sessions, sender: sender, catalog: catalog}
}

func (w *DeletePollWorker) Work(ctx context.Context, job *river.Job[polls.DeletePollArgs]) error {
	args := job.Args
	logger := log.WithFields(log.Fields{"poll_id": args.PollID, "poll_uuid": args.PollUUID})

	sess, err := w.sessions(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Rollback(ctx); err != nil {
			logger.WithError(err).Error("failed to release session")
		}
	}()

	err = sess.DeletePoll(ctx, args.PollID)
	switch {
	case errors.Is(err, polls.ErrPollNotFound):
		// already gone; a previous attempt may have committed before failing to notify
		logger.Info("poll already deleted")
		return nil
	case err != nil:
		return fmt.Errorf("delete poll %d: %w", args.PollID, err)
	}
	if err := sess.Commit(ctx); err != nil {
		return err
	}
	logger.Info("poll deleted")

	msg := messenger.Message{
		ChatID:         args.ChatID,
		Text:           w.catalog.Tf("deletion.done", args.Locale, display.Bold(args.PollName)),
		ParseMode:      tgbotapi.ModeMarkdown,
		DisablePreview: true,
	}
	if err := w.sender.Send(ctx, msg); err != nil {
		// the deletion itself is committed; retrying would only hit ErrPollNotFound
		logger.WithError(err).Warn("failed to notify poll owner")
	}
	return nil
}
