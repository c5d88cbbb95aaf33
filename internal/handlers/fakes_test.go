package handlers

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/nikitkaralius/pollbot/internal/messenger"
	"github.com/nikitkaralius/pollbot/internal/polls"
	"github.com/nikitkaralius/pollbot/internal/voters"
)

// events is a shared journal so tests can assert the order of commits and sends.
type events struct {
	log []string
}

func (e *events) add(s string) { e.log = append(e.log, s) }

type fakeSession struct {
	events    *events
	voter     *voters.Voter
	polls     map[uuid.UUID]*polls.Poll
	saved     []voters.Voter
	options   []*polls.Option
	commits   int
	rollbacks int
	nextID    int64
}

func newFakeSession(ev *events, voter *voters.Voter, ps ...*polls.Poll) *fakeSession {
	s := &fakeSession{events: ev, voter: voter, polls: map[uuid.UUID]*polls.Poll{}, nextID: 100}
	for _, p := range ps {
		s.polls[p.UUID] = p
	}
	return s
}

func (s *fakeSession) Voter(ctx context.Context, from *tgbotapi.User) (*voters.Voter, error) {
	return s.voter, nil
}

func (s *fakeSession) SaveVoter(ctx context.Context, v *voters.Voter) error {
	s.events.add("save")
	s.saved = append(s.saved, *v)
	return nil
}

func (s *fakeSession) PollByUUID(ctx context.Context, id uuid.UUID) (*polls.Poll, error) {
	if p, ok := s.polls[id]; ok {
		return p, nil
	}
	return nil, polls.ErrPollNotFound
}

func (s *fakeSession) PollByID(ctx context.Context, id int64) (*polls.Poll, error) {
	for _, p := range s.polls {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, polls.ErrPollNotFound
}

func (s *fakeSession) AddOption(ctx context.Context, o *polls.Option) error {
	s.events.add("option")
	s.nextID++
	o.ID = s.nextID
	s.options = append(s.options, o)
	return nil
}

func (s *fakeSession) Commit(ctx context.Context) error {
	s.events.add("commit")
	s.commits++
	return nil
}

func (s *fakeSession) Rollback(ctx context.Context) error {
	s.rollbacks++
	return nil
}

// mutations counts the writes the session saw.
func (s *fakeSession) mutations() int {
	return len(s.saved) + len(s.options)
}

type fakeSender struct {
	events  *events
	sent    []messenger.Message
	calls   int
	fail    map[int]error // 1-based call number -> error
	answers []string
}

func (f *fakeSender) Send(ctx context.Context, msg messenger.Message) error {
	f.calls++
	if err, ok := f.fail[f.calls]; ok {
		f.events.add("send-failed")
		return err
	}
	f.events.add("send")
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) AnswerCallback(ctx context.Context, callbackID, text string) error {
	f.answers = append(f.answers, callbackID)
	return nil
}

type fakeScheduler struct {
	scheduled []polls.DeletePollArgs
}

func (f *fakeScheduler) ScheduleDeletion(ctx context.Context, args polls.DeletePollArgs, runAt time.Time) error {
	f.scheduled = append(f.scheduled, args)
	return nil
}

type fakeDates map[string]time.Time

func (f fakeDates) ResolveDate(ctx context.Context, text string, today time.Time) (time.Time, bool, error) {
	d, ok := f[text]
	return d, ok, nil
}

func command(text string) *tgbotapi.Message {
	length := len(text)
	for i, r := range text {
		if r == ' ' {
			length = i
			break
		}
	}
	return &tgbotapi.Message{
		MessageID: 1,
		Text:      text,
		From:      &tgbotapi.User{ID: 7, FirstName: "Alice", LanguageCode: "en"},
		Chat:      &tgbotapi.Chat{ID: 42, Type: "private"},
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}},
	}
}

func text(s string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 2,
		Text:      s,
		From:      &tgbotapi.User{ID: 7, FirstName: "Alice", LanguageCode: "en"},
		Chat:      &tgbotapi.Chat{ID: 42, Type: "private"},
	}
}
