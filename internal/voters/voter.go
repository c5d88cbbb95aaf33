package voters

import (
	"errors"
	"time"
)

var ErrVoterNotFound = errors.New("voter not found")

// ExpectedInput tells which kind of message the bot waits for from a voter.
// The zero value means nothing is expected.
type ExpectedInput string

const (
	ExpectedNone  ExpectedInput = ""
	NewUserOption ExpectedInput = "new_user_option"
)

// Voter is a bot user.
type Voter struct {
	ID            int64
	TelegramID    int64
	Username      string
	Name          string
	Locale        string
	ExpectedInput ExpectedInput
	CurrentPollID *int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Expect sets the expected input and binds the current poll.
func (v *Voter) Expect(input ExpectedInput, pollID int64) {
	v.ExpectedInput = input
	v.CurrentPollID = &pollID
}

// Reset clears the expected input and the current poll.
func (v *Voter) Reset() {
	v.ExpectedInput = ExpectedNone
	v.CurrentPollID = nil
}
