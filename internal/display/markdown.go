package display

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bold renders s as bold legacy Markdown. Entities take no escapes, so every
// literal '*' is written between two bold runs: "2*2" -> "*2*\**2*".
func Bold(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for i, part := range strings.Split(s, "*") {
		if i > 0 {
			b.WriteString(`\*`)
		}
		if part != "" {
			b.WriteString("*")
			b.WriteString(part)
			b.WriteString("*")
		}
	}
	return b.String()
}

// Escape makes s safe as plain text outside of any entity.
func Escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, strings.TrimSpace(s))
}
