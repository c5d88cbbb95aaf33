package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/compat_oai/openai"
	"github.com/nikitkaralius/pollbot/internal/utils"
)

// Client wraps Genkit for LLM operations.
type Client struct {
	genkit *genkit.Genkit
	model  ai.Model
}

// NewClient creates a new LLM client with Genkit and OpenAI.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	oai := &openai.OpenAI{APIKey: apiKey}
	g := genkit.Init(ctx, genkit.WithPlugins(oai))
	model := oai.Model(g, "gpt-4o-mini")

	return &Client{
		genkit: g,
		model:  model,
	}, nil
}

// ResolveDate asks the model whether text names a calendar day, relative to
// today. ok is false when the text is a regular option.
func (c *Client) ResolveDate(ctx context.Context, text string, today time.Time) (time.Time, bool, error) {
	prompt := fmt.Sprintf(`You are a helpful assistant that recognises calendar dates in poll options written in any language.

CURRENT DATE CONTEXT:
- Today is %s (%s).

Decide whether the poll option below names exactly one calendar day, for example "tomorrow", "next friday",
"24th of December" or "Montag". Relative references are resolved from today's date. If the year is missing,
pick the nearest such day that is not in the past.

Return ONLY valid JSON in this exact format:
{
  "is_date": true or false,
  "date": "YYYY-MM-DD" (only when is_date is true)
}

Poll option: `, utils.FormatISODate(today), today.Weekday()) + text

	resp, err := genkit.Generate(ctx, c.genkit,
		ai.WithModel(c.model),
		ai.WithPrompt(prompt),
	)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("LLM request failed: %w", err)
	}

	return parseDateIntent(resp.Text())
}

func parseDateIntent(content string) (time.Time, bool, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var intent DateIntent
	if err := json.Unmarshal([]byte(content), &intent); err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse LLM response as JSON: %w. Response: %s", err, content)
	}
	if !intent.IsDate {
		return time.Time{}, false, nil
	}
	d, err := utils.ParseISODate(intent.Date)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("LLM returned an invalid date: %w", err)
	}
	return d, true, nil
}
