// Package deeplink parses the payload of /start deep links.
//
// A payload has the form "<poll uuid>-<action code>". The UUID may be written
// with or without hyphens; the action code is whatever follows the last '-'.
package deeplink

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type Action int

const (
	NewOption   Action = 0
	ShowResults Action = 1
)

func (a Action) String() string {
	switch a {
	case NewOption:
		return "new_option"
	case ShowResults:
		return "show_results"
	}
	return "action(" + strconv.Itoa(int(a)) + ")"
}

func (a Action) valid() bool {
	return a == NewOption || a == ShowResults
}

var (
	ErrMalformedPayload = errors.New("payload has no action separator")
	ErrMalformedUUID    = errors.New("payload has a malformed poll uuid")
	ErrUnknownAction    = errors.New("payload has an unknown action code")
)

// Payload is one of Empty, Invalid or Valid.
type Payload interface {
	isPayload()
}

// Empty is a /start without arguments.
type Empty struct{}

// Invalid carries the raw text and the reason it was rejected.
type Invalid struct {
	Raw string
	Err error
}

// Valid references a poll and the action to resume.
type Valid struct {
	PollUUID uuid.UUID
	Action   Action
}

func (Empty) isPayload()   {}
func (Invalid) isPayload() {}
func (Valid) isPayload()   {}

// Parse classifies the arguments of a /start command.
func Parse(text string) Payload {
	text = strings.TrimSpace(text)
	if text == "" {
		return Empty{}
	}

	sep := strings.LastIndex(text, "-")
	if sep < 0 {
		return Invalid{Raw: text, Err: ErrMalformedPayload}
	}

	id, err := uuid.Parse(text[:sep])
	if err != nil {
		return Invalid{Raw: text, Err: fmt.Errorf("%w: %v", ErrMalformedUUID, err)}
	}

	code, err := strconv.Atoi(text[sep+1:])
	if err != nil || !Action(code).valid() {
		return Invalid{Raw: text, Err: fmt.Errorf("%w: %q", ErrUnknownAction, text[sep+1:])}
	}

	return Valid{PollUUID: id, Action: Action(code)}
}

// Encode builds the payload for a poll and action.
func Encode(pollUUID uuid.UUID, action Action) string {
	return pollUUID.String() + "-" + strconv.Itoa(int(action))
}

// Link builds a t.me deep link to the bot for the given payload.
func Link(botUsername string, pollUUID uuid.UUID, action Action) string {
	return "https://t.me/" + botUsername + "?start=" + Encode(pollUUID, action)
}
