package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/nikitkaralius/pollbot/internal/display"
	"github.com/nikitkaralius/pollbot/internal/polls"
	"github.com/nikitkaralius/pollbot/internal/voters"
)

// Delete schedules the deletion of one of the voter's polls.
func (h *Handler) Delete(ctx context.Context, sess Session, voter *voters.Voter, msg *tgbotapi.Message) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(msg.CommandArguments()))
	if err != nil {
		return h.catalog.T("deletion.usage", voter.Locale), nil
	}

	poll, err := sess.PollByUUID(ctx, id)
	if errors.Is(err, polls.ErrPollNotFound) || (err == nil && poll.UserID != voter.ID) {
		return h.catalog.T("misc.poll_not_found", voter.Locale), nil
	}
	if err != nil {
		return "", err
	}

	args := polls.DeletePollArgs{
		PollID:   poll.ID,
		PollUUID: poll.UUID.String(),
		PollName: poll.Name,
		ChatID:   msg.Chat.ID,
		Locale:   poll.Locale,
	}
	if err := h.pollsService.ScheduleDeletion(ctx, args, time.Time{}); err != nil {
		return "", err
	}
	return h.catalog.Tf("deletion.scheduled", poll.Locale, display.Bold(poll.Name)), nil
}
