package handlers

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/nikitkaralius/pollbot/internal/polls"
	"github.com/nikitkaralius/pollbot/internal/voters"
)

// Session is the unit of work of one update. Commit makes the mutations so
// far visible; Rollback discards whatever is pending and is safe to call
// after Commit.
type Session interface {
	Voter(ctx context.Context, from *tgbotapi.User) (*voters.Voter, error)
	SaveVoter(ctx context.Context, v *voters.Voter) error
	PollByUUID(ctx context.Context, id uuid.UUID) (*polls.Poll, error)
	PollByID(ctx context.Context, id int64) (*polls.Poll, error)
	AddOption(ctx context.Context, o *polls.Option) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// SessionFactory opens a Session for one update.
type SessionFactory func(ctx context.Context) (Session, error)

// DateResolver maps free-form text such as "next friday" to a calendar day.
type DateResolver interface {
	ResolveDate(ctx context.Context, text string, today time.Time) (time.Time, bool, error)
}
