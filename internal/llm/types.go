package llm

// DateIntent is the parsed answer of the model for a single option line.
type DateIntent struct {
	IsDate bool   `json:"is_date"`
	Date   string `json:"date,omitempty"` // YYYY-MM-DD when is_date is true
}
