package display

import (
	"fmt"

	"github.com/nikitkaralius/pollbot/internal/i18n"
	"github.com/nikitkaralius/pollbot/internal/polls"
)

// CompileResults renders the results of a poll as Markdown lines: the poll
// header, then every option in index order followed by its voters.
// Date options that cannot be parsed make the whole compilation fail.
func CompileResults(poll *polls.Poll, catalog *i18n.Catalog) ([]string, error) {
	lines := []string{Bold(poll.Name)}
	if poll.Description != "" {
		lines = append(lines, Escape(poll.Description))
	}
	lines = append(lines, "")

	for i, o := range poll.Options {
		name, err := o.FormattedName()
		if err != nil {
			return nil, err
		}
		lines = append(lines, fmt.Sprintf("%s (%s)", Bold(name), voteCount(catalog, poll.Locale, len(o.Votes))))
		for _, v := range o.Votes {
			voter := v.VoterName
			if voter == "" {
				voter = "Anonymous"
			}
			lines = append(lines, "- "+Escape(voter))
		}
		if i < len(poll.Options)-1 {
			lines = append(lines, "")
		}
	}
	return lines, nil
}

func voteCount(catalog *i18n.Catalog, locale string, n int) string {
	key := "results.votes.other"
	if n == 1 {
		key = "results.votes.one"
	}
	return catalog.Tf(key, locale, n)
}
