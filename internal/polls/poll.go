package polls

import (
	"time"

	"github.com/google/uuid"
)

// Poll owns an ordered collection of options.
type Poll struct {
	ID                 int64
	UUID               uuid.UUID
	UserID             int64
	Name               string
	Description        string
	Locale             string
	EuropeanDateFormat bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Options            []*Option
}

// Option is one votable choice of a poll. Index is zero-based and unique within the poll.
type Option struct {
	ID          int64
	PollID      int64
	Poll        *Poll
	Index       int
	Name        string
	Description string
	IsDate      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Votes       []Vote
}

// Vote belongs to an option. Votes of an option are kept ordered by ID.
type Vote struct {
	ID        int64
	OptionID  int64
	VoterID   int64
	VoterName string
	CreatedAt time.Time
}

// HasOption reports whether the poll already contains an option with the given name.
func (p *Poll) HasOption(name string) bool {
	for _, o := range p.Options {
		if o.Name == name {
			return true
		}
	}
	return false
}
