package display

import "unicode/utf8"

// MaxMessageLength bounds a single outbound message, leaving headroom under
// Telegram's 4096 character limit.
const MaxMessageLength = 4000

// SplitText groups lines into chunks whose newline-joined length, counted in
// runes, does not exceed limit. Lines longer than limit are cut into pieces
// that keep bold markup balanced. A limit below one disables splitting.
func SplitText(lines []string, limit int) [][]string {
	if limit <= 0 {
		if len(lines) == 0 {
			return nil
		}
		return [][]string{lines}
	}

	var chunks [][]string
	var current []string
	size := 0

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, current)
		}
		current = nil
		size = 0
	}

	for _, line := range lines {
		for _, piece := range cut(line, limit) {
			n := utf8.RuneCountInString(piece)
			needed := n
			if len(current) > 0 {
				needed++ // joining newline
			}
			if len(current) > 0 && size+needed > limit {
				flush()
				needed = n
			}
			current = append(current, piece)
			size += needed
		}
	}
	flush()
	return chunks
}

// minMarkupLimit is the smallest limit that leaves room for a reopened and
// a closing '*' around at least one rune.
const minMarkupLimit = 3

// cut splits an over-long line into pieces of at most limit runes. A piece
// never ends between a backslash and the rune it escapes, and a bold entity
// open at the cut is closed there and reopened in the next piece.
func cut(line string, limit int) []string {
	if utf8.RuneCountInString(line) <= limit {
		return []string{line}
	}
	runes := []rune(line)
	if limit < minMarkupLimit {
		var pieces []string
		for len(runes) > limit {
			pieces = append(pieces, string(runes[:limit]))
			runes = runes[limit:]
		}
		if len(runes) > 0 {
			pieces = append(pieces, string(runes))
		}
		return pieces
	}

	var pieces []string
	bold := false
	for len(runes) > 0 {
		prefix := ""
		if bold {
			prefix = "*"
		}
		if len(prefix)+len(runes) <= limit {
			pieces = append(pieces, prefix+string(runes))
			break
		}

		n := limit - len(prefix)
		open, dangling := scanMarkup(runes[:n], bold)
		if dangling {
			n--
			open, _ = scanMarkup(runes[:n], bold)
		}
		if open && len(prefix)+n+1 > limit {
			n--
			open, dangling = scanMarkup(runes[:n], bold)
			if dangling && n > 1 {
				n--
				open, _ = scanMarkup(runes[:n], bold)
			}
		}

		piece := prefix + string(runes[:n])
		if open {
			piece += "*"
		}
		pieces = append(pieces, piece)
		bold = open
		runes = runes[n:]
	}
	return pieces
}

// scanMarkup walks legacy Markdown starting with the given bold state and
// reports whether bold is open at the end and whether the text ends with an
// unpaired escape backslash.
func scanMarkup(runes []rune, bold bool) (open, dangling bool) {
	escaped := false
	for _, r := range runes {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '*':
			bold = !bold
		}
	}
	return bold, escaped
}
