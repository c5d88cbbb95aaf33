package handlers

import (
	"context"
	"fmt"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nikitkaralius/pollbot/internal/deeplink"
	"github.com/nikitkaralius/pollbot/internal/keyboard"
	"github.com/nikitkaralius/pollbot/internal/polls"
	"github.com/nikitkaralius/pollbot/internal/voters"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpAndDonation(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.handler.Help(context.Background(), 42))
	require.NoError(t, h.handler.Donation(context.Background(), 42))

	require.Len(t, h.sender.sent, 2)
	assert.Equal(t, helpText, h.sender.sent[0].Text)
	assert.Equal(t, donationsText, h.sender.sent[1].Text)
	for _, msg := range h.sender.sent {
		assert.Equal(t, int64(42), msg.ChatID)
		assert.Equal(t, keyboard.Main(), msg.ReplyMarkup)
		assert.Equal(t, tgbotapi.ModeMarkdown, msg.ParseMode)
		assert.True(t, msg.DisablePreview)
	}
	assert.Zero(t, h.sess.mutations())
}

func TestHandleMessageRoutesCommandsAndButtons(t *testing.T) {
	tests := []struct {
		name string
		msg  *tgbotapi.Message
		want string
	}{
		{"help command", command("/help"), helpText},
		{"donations command", command("/donations"), donationsText},
		{"donate alias", command("/donate"), donationsText},
		{"help button", text(keyboard.HelpButton), helpText},
		{"donations button", text(keyboard.DonationsButton), donationsText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			h.handler.HandleMessage(context.Background(), tt.msg)

			require.Len(t, h.sender.sent, 1)
			assert.Equal(t, tt.want, h.sender.sent[0].Text)
			assert.Equal(t, 1, h.sess.commits)
			assert.Equal(t, 1, h.sess.rollbacks)
		})
	}
}

func TestHandleMessageSendsReturnedReplyAfterCommit(t *testing.T) {
	h := newHarness(t)

	h.handler.HandleMessage(context.Background(), command("/start "+deeplink.Encode(testPoll("gone").UUID, deeplink.NewOption)))

	assert.Equal(t, []string{"commit", "send"}, h.events.log)
	require.Len(t, h.sender.sent, 1)
	assert.Equal(t, "This poll no longer exists.", h.sender.sent[0].Text)
	assert.Nil(t, h.sender.sent[0].ReplyMarkup)
}

func TestHandleMessageIgnoresGroupChats(t *testing.T) {
	h := newHarness(t)
	msg := command("/help")
	msg.Chat.Type = "group"

	h.handler.HandleMessage(context.Background(), msg)

	assert.Empty(t, h.sender.sent)
	assert.Empty(t, h.events.log)
}

func TestHandleMessageIgnoresUnexpectedText(t *testing.T) {
	h := newHarness(t)

	h.handler.HandleMessage(context.Background(), text("hello"))

	assert.Empty(t, h.sender.sent)
	assert.Zero(t, h.sess.mutations())
}

func expectingHarness(t *testing.T, poll *polls.Poll) *harness {
	t.Helper()
	h := newHarness(t, poll)
	h.voter.Expect(voters.NewUserOption, poll.ID)
	return h
}

func TestAddOptionsCreatesOptionsFromLines(t *testing.T) {
	poll := testPoll("Lunch")
	poll.Options = []*polls.Option{{ID: 1, Poll: poll, PollID: poll.ID, Index: 0, Name: "Sushi"}}
	h := expectingHarness(t, poll)
	h.handler.dates = fakeDates{"next friday": time.Date(2024, 12, 27, 0, 0, 0, 0, time.UTC)}

	h.handler.HandleMessage(context.Background(), text("Pizza\n 2024-12-24 \n\nPizza\nSushi\nnext friday"))

	require.Len(t, h.sess.options, 3)
	got := make([]string, 0, 3)
	for i, o := range h.sess.options {
		assert.Equal(t, poll.ID, o.PollID)
		assert.Equal(t, i+1, o.Index)
		got = append(got, fmt.Sprintf("%s/%t", o.Name, o.IsDate))
	}
	assert.Equal(t, []string{"Pizza/false", "2024-12-24/true", "2024-12-27/true"}, got)

	require.Len(t, h.sender.sent, 1)
	want := h.catalog.Tf("creation.option.added", "en", 3, deeplink.Link("poll_bot", poll.UUID, deeplink.ShowResults))
	assert.Equal(t, want, h.sender.sent[0].Text)
	assert.Equal(t, keyboard.ExternalAddOption(poll, h.catalog), h.sender.sent[0].ReplyMarkup)
	assert.Equal(t, voters.NewUserOption, h.voter.ExpectedInput)
}

func TestAddOptionsReportsDuplicates(t *testing.T) {
	poll := testPoll("Lunch")
	poll.Options = []*polls.Option{{ID: 1, Poll: poll, Name: "Sushi"}}
	h := expectingHarness(t, poll)

	h.handler.HandleMessage(context.Background(), text("Sushi"))

	assert.Empty(t, h.sess.options)
	require.Len(t, h.sender.sent, 1)
	assert.Equal(t, h.catalog.T("creation.option.none_added", "en"), h.sender.sent[0].Text)
}

func TestAddOptionsIgnoresResolverErrors(t *testing.T) {
	poll := testPoll("Lunch")
	h := expectingHarness(t, poll)
	h.handler.dates = failingDates{}

	h.handler.HandleMessage(context.Background(), text("tomorrow"))

	require.Len(t, h.sess.options, 1)
	assert.Equal(t, "tomorrow", h.sess.options[0].Name)
	assert.False(t, h.sess.options[0].IsDate)
}

func TestAddOptionsForDeletedPollResetsVoter(t *testing.T) {
	poll := testPoll("Lunch")
	h := newHarness(t)
	h.voter.Expect(voters.NewUserOption, poll.ID)

	h.handler.HandleMessage(context.Background(), text("Pizza"))

	require.Len(t, h.sess.saved, 1)
	assert.Equal(t, voters.ExpectedNone, h.sess.saved[0].ExpectedInput)
	assert.Nil(t, h.sess.saved[0].CurrentPollID)
	require.Len(t, h.sender.sent, 1)
	assert.Equal(t, "This poll no longer exists.", h.sender.sent[0].Text)
}

type failingDates struct{}

func (failingDates) ResolveDate(ctx context.Context, text string, today time.Time) (time.Time, bool, error) {
	return time.Time{}, false, fmt.Errorf("model unavailable")
}

func TestCallbackDoneResetsVoter(t *testing.T) {
	poll := testPoll("Lunch")
	h := expectingHarness(t, poll)

	h.handler.HandleCallback(context.Background(), &tgbotapi.CallbackQuery{
		ID:      "cb1",
		From:    &tgbotapi.User{ID: 7},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 42}},
		Data:    fmt.Sprintf("option_done:%d", poll.ID),
	})

	assert.Equal(t, []string{"save", "commit", "send"}, h.events.log)
	assert.Equal(t, voters.ExpectedNone, h.voter.ExpectedInput)
	assert.Nil(t, h.voter.CurrentPollID)
	assert.Equal(t, []string{"cb1"}, h.sender.answers)
	require.Len(t, h.sender.sent, 1)
	assert.Equal(t, int64(42), h.sender.sent[0].ChatID)
	assert.Equal(t, h.catalog.T("creation.option.finished", "en"), h.sender.sent[0].Text)
	assert.Equal(t, keyboard.Main(), h.sender.sent[0].ReplyMarkup)
}

func TestCallbackDoneForOtherPollKeepsState(t *testing.T) {
	poll := testPoll("Lunch")
	h := expectingHarness(t, poll)

	h.handler.HandleCallback(context.Background(), &tgbotapi.CallbackQuery{
		ID:   "cb2",
		From: &tgbotapi.User{ID: 7},
		Data: "option_done:999",
	})

	assert.Empty(t, h.sess.saved)
	assert.Equal(t, voters.NewUserOption, h.voter.ExpectedInput)
	require.Len(t, h.sender.sent, 1)
	assert.Equal(t, int64(7), h.sender.sent[0].ChatID)
}

func TestCallbackUnknownDataIsOnlyAnswered(t *testing.T) {
	h := newHarness(t)

	h.handler.HandleCallback(context.Background(), &tgbotapi.CallbackQuery{
		ID:   "cb3",
		From: &tgbotapi.User{ID: 7},
		Data: "vote:1",
	})

	assert.Equal(t, []string{"cb3"}, h.sender.answers)
	assert.Empty(t, h.sender.sent)
	assert.Empty(t, h.events.log)
}

func TestDeleteSchedulesOwnPoll(t *testing.T) {
	poll := testPoll("Team_lunch")
	h := newHarness(t, poll)
	scheduler := &fakeScheduler{}
	h.handler.pollsService = scheduler

	reply, err := h.handler.Delete(context.Background(), h.sess, h.voter, command("/delete "+poll.UUID.String()))

	require.NoError(t, err)
	assert.Equal(t, `The poll *Team_lunch* will be deleted shortly.`, reply)
	require.Len(t, scheduler.scheduled, 1)
	assert.Equal(t, polls.DeletePollArgs{
		PollID:   poll.ID,
		PollUUID: poll.UUID.String(),
		PollName: "Team_lunch",
		ChatID:   42,
		Locale:   "en",
	}, scheduler.scheduled[0])
}

func TestDeleteRejectsForeignOrUnknownPolls(t *testing.T) {
	poll := testPoll("Lunch")
	poll.UserID = 99
	h := newHarness(t, poll)
	scheduler := &fakeScheduler{}
	h.handler.pollsService = scheduler

	reply, err := h.handler.Delete(context.Background(), h.sess, h.voter, command("/delete "+poll.UUID.String()))
	require.NoError(t, err)
	assert.Equal(t, "This poll no longer exists.", reply)

	reply, err = h.handler.Delete(context.Background(), h.sess, h.voter, command("/delete nope"))
	require.NoError(t, err)
	assert.Equal(t, h.catalog.T("deletion.usage", "en"), reply)

	assert.Empty(t, scheduler.scheduled)
}

func TestDeleteReplyReopensBoldAroundStars(t *testing.T) {
	poll := testPoll("2*2=4")
	h := newHarness(t, poll)

	reply, err := h.handler.Delete(context.Background(), h.sess, h.voter, command("/delete "+poll.UUID.String()))

	require.NoError(t, err)
	assert.Equal(t, `The poll *2*\**2=4* will be deleted shortly.`, reply)
}
