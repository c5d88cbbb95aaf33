// Package messenger delivers outbound chat messages.
package messenger

import (
	"context"
	"errors"
)

// ErrTimeout marks a send that failed because the transport timed out. The
// message may or may not have been delivered.
var ErrTimeout = errors.New("send timed out")

// Message is one outbound text message.
type Message struct {
	ChatID         int64
	Text           string
	ParseMode      string
	ReplyMarkup    any
	DisablePreview bool
}

// Sender is implemented by the Telegram adapter and by test fakes.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}
