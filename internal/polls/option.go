package polls

import (
	"fmt"
	"time"

	"github.com/nikitkaralius/pollbot/internal/utils"
)

const (
	isoDisplayLayout      = "2006-01-02 (Monday)"
	europeanDisplayLayout = "02.01.2006 (Monday)"
)

// NewOption builds an option for the poll with the next free index:
// zero for an empty poll, otherwise one past the highest sibling index.
// The option is not appended to poll.Options.
func NewOption(poll *Poll, name string) *Option {
	index := 0
	for _, o := range poll.Options {
		if o.Index+1 > index {
			index = o.Index + 1
		}
	}
	return &Option{
		PollID: poll.ID,
		Poll:   poll,
		Index:  index,
		Name:   name,
	}
}

// FormattedName renders date options with their weekday, using the day-first
// convention when the poll asks for it. Other options are returned as is.
func (o *Option) FormattedName() (string, error) {
	d, ok, err := o.AsDate()
	if err != nil {
		return "", err
	}
	if !ok {
		return o.Name, nil
	}
	if o.Poll != nil && o.Poll.EuropeanDateFormat {
		return d.Format(europeanDisplayLayout), nil
	}
	return d.Format(isoDisplayLayout), nil
}

// AsDate returns the calendar date of a date option. ok is false for
// regular options.
func (o *Option) AsDate() (date time.Time, ok bool, err error) {
	if !o.IsDate {
		return time.Time{}, false, nil
	}
	d, err := utils.ParseISODate(o.Name)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: option %d: %v", ErrInvalidOptionDate, o.ID, err)
	}
	return d, true, nil
}
