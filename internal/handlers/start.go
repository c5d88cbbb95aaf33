package handlers

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nikitkaralius/pollbot/internal/deeplink"
	"github.com/nikitkaralius/pollbot/internal/display"
	"github.com/nikitkaralius/pollbot/internal/keyboard"
	"github.com/nikitkaralius/pollbot/internal/messenger"
	"github.com/nikitkaralius/pollbot/internal/polls"
	"github.com/nikitkaralius/pollbot/internal/voters"
	log "github.com/sirupsen/logrus"
)

// Start handles /start. Without a usable deep-link payload it sends the
// welcome message; with one it resumes the encoded action on the poll.
func (h *Handler) Start(ctx context.Context, sess Session, voter *voters.Voter, msg *tgbotapi.Message) (string, error) {
	chatID := msg.Chat.ID

	var link deeplink.Valid
	switch p := deeplink.Parse(msg.CommandArguments()).(type) {
	case deeplink.Valid:
		link = p
	case deeplink.Invalid:
		log.WithFields(log.Fields{"chat_id": chatID, "payload": p.Raw}).WithError(p.Err).Debug("ignoring start payload")
		return "", h.sendWelcome(ctx, chatID, voter.Locale)
	default:
		return "", h.sendWelcome(ctx, chatID, voter.Locale)
	}

	poll, err := sess.PollByUUID(ctx, link.PollUUID)
	if errors.Is(err, polls.ErrPollNotFound) {
		return h.catalog.T("misc.poll_not_found", voter.Locale), nil
	}
	if err != nil {
		return "", err
	}

	switch link.Action {
	case deeplink.NewOption:
		return "", h.startNewOption(ctx, sess, voter, poll, chatID)
	case deeplink.ShowResults:
		return "", h.showResults(ctx, poll, chatID)
	}
	return "", nil
}

func (h *Handler) sendWelcome(ctx context.Context, chatID int64, locale string) error {
	return h.send(ctx, chatID, h.catalog.T("misc.start", locale), keyboard.Main())
}

// startNewOption makes the voter's next message an option for poll. The
// state is committed before the prompt goes out so the answer to it finds
// the voter waiting.
func (h *Handler) startNewOption(ctx context.Context, sess Session, voter *voters.Voter, poll *polls.Poll, chatID int64) error {
	voter.Expect(voters.NewUserOption, poll.ID)
	if err := sess.SaveVoter(ctx, voter); err != nil {
		return err
	}
	if err := sess.Commit(ctx); err != nil {
		return err
	}
	return h.send(ctx, chatID, h.catalog.T("creation.option.first", poll.Locale), keyboard.ExternalAddOption(poll, h.catalog))
}

// showResults sends the results in chunks, one at a time with a pause after
// each, and finishes with the main keyboard.
func (h *Handler) showResults(ctx context.Context, poll *polls.Poll, chatID int64) error {
	lines, err := display.CompileResults(poll, h.catalog)
	if err != nil {
		return err
	}

	for _, chunk := range display.SplitText(lines, display.MaxMessageLength) {
		msg := messenger.Message{
			ChatID:         chatID,
			Text:           strings.Join(chunk, "\n"),
			ParseMode:      tgbotapi.ModeMarkdown,
			DisablePreview: true,
		}
		if err := h.sendRetryOnTimeout(ctx, msg); err != nil {
			return err
		}
		if err := h.pause(ctx, resultsPacing); err != nil {
			return err
		}
	}

	return h.send(ctx, chatID, h.catalog.T("misc.start_after_results", poll.Locale), keyboard.Main())
}
