package keyboard

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nikitkaralius/pollbot/internal/i18n"
	"github.com/nikitkaralius/pollbot/internal/polls"
)

// Main keyboard button labels. They are matched literally by the dispatcher.
const (
	HelpButton      = "❓ Help"
	DonationsButton = "💸 Donations"
)

const optionDonePrefix = "option_done:"

// Main is the navigation keyboard shown below most replies.
func Main() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(HelpButton),
			tgbotapi.NewKeyboardButton(DonationsButton),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

// ExternalAddOption is attached to prompts while a user adds options to
// someone else's poll.
func ExternalAddOption(poll *polls.Poll, catalog *i18n.Catalog) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ "+catalog.T("keyboard.done", poll.Locale), fmt.Sprintf("%s%d", optionDonePrefix, poll.ID)),
		),
	)
}

// ParseOptionDone extracts the poll id from the data of the done button.
func ParseOptionDone(data string) (int64, bool) {
	raw, ok := strings.CutPrefix(data, optionDonePrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
