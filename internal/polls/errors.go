package polls

import "errors"

var (
	ErrPollNotFound      = errors.New("poll not found")
	ErrInvalidOptionDate = errors.New("option name is not an ISO date")
)
