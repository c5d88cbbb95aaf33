package handlers

import (
	"context"

	"github.com/nikitkaralius/pollbot/internal/keyboard"
)

const helpText = `*Poll bot*

I create polls with any number of options. Options can be plain text or dates, and everybody you share a poll with can vote.

*Commands*
/start - Show the welcome message
/help - Show this text
/donations - Support the development
/delete <poll id> - Delete one of your polls

*Adding options*
If a poll allows it, open the "add option" link below the poll. Every line you send me becomes a new option. Lines like ` + "`2024-12-24`" + ` become date options.

*Results*
Open the "show results" link below a poll to get the full results as a private message.`

const donationsText = `*Donations*

This bot is free, has no ads and does not sell your data. Hosting still costs money.
If you like it, consider supporting the development. Thank you!`

// Help sends the help text with the main keyboard.
func (h *Handler) Help(ctx context.Context, chatID int64) error {
	return h.send(ctx, chatID, helpText, keyboard.Main())
}

// Donation sends the donation text with the main keyboard.
func (h *Handler) Donation(ctx context.Context, chatID int64) error {
	return h.send(ctx, chatID, donationsText, keyboard.Main())
}
