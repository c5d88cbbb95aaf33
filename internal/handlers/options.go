package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nikitkaralius/pollbot/internal/deeplink"
	"github.com/nikitkaralius/pollbot/internal/keyboard"
	"github.com/nikitkaralius/pollbot/internal/polls"
	"github.com/nikitkaralius/pollbot/internal/utils"
	"github.com/nikitkaralius/pollbot/internal/voters"
	log "github.com/sirupsen/logrus"
)

// AddOptions turns every non-empty line of msg into an option of the voter's
// current poll. Names the poll already has are skipped.
func (h *Handler) AddOptions(ctx context.Context, sess Session, voter *voters.Voter, msg *tgbotapi.Message) (string, error) {
	if voter.CurrentPollID == nil {
		voter.Reset()
		return "", sess.SaveVoter(ctx, voter)
	}

	poll, err := sess.PollByID(ctx, *voter.CurrentPollID)
	if errors.Is(err, polls.ErrPollNotFound) {
		voter.Reset()
		if err := sess.SaveVoter(ctx, voter); err != nil {
			return "", err
		}
		return h.catalog.T("misc.poll_not_found", voter.Locale), nil
	}
	if err != nil {
		return "", err
	}

	added := 0
	for _, line := range strings.Split(msg.Text, "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		isDate := utils.IsISODate(name)
		if !isDate {
			if d, ok := h.resolveDate(ctx, name); ok {
				name, isDate = utils.FormatISODate(d), true
			}
		}
		if poll.HasOption(name) {
			continue
		}

		option := polls.NewOption(poll, name)
		option.IsDate = isDate
		if err := sess.AddOption(ctx, option); err != nil {
			return "", err
		}
		poll.Options = append(poll.Options, option)
		added++
	}

	if err := sess.Commit(ctx); err != nil {
		return "", err
	}

	if added == 0 {
		return "", h.send(ctx, msg.Chat.ID, h.catalog.T("creation.option.none_added", poll.Locale), keyboard.ExternalAddOption(poll, h.catalog))
	}
	text := h.catalog.Tf("creation.option.added", poll.Locale, added, deeplink.Link(h.botUsername, poll.UUID, deeplink.ShowResults))
	return "", h.send(ctx, msg.Chat.ID, text, keyboard.ExternalAddOption(poll, h.catalog))
}

func (h *Handler) resolveDate(ctx context.Context, text string) (time.Time, bool) {
	if h.dates == nil {
		return time.Time{}, false
	}
	d, ok, err := h.dates.ResolveDate(ctx, text, utils.Today(h.now(), nil))
	if err != nil {
		log.WithError(err).WithField("text", text).Warn("date resolution failed")
		return time.Time{}, false
	}
	return d, ok
}
