package polls

// DeletePollArgs defines the arguments for a job that runs the poll deletion
// routine and notifies the owner afterwards.
// This type is shared between the handlers (for enqueue) and the worker.
type DeletePollArgs struct {
	PollID   int64  `json:"poll_id"`
	PollUUID string `json:"poll_uuid"`
	PollName string `json:"poll_name"`
	ChatID   int64  `json:"chat_id"`
	Locale   string `json:"locale"`
}

// Kind implements river.JobArgs to identify this job type.
func (DeletePollArgs) Kind() string { return "delete_poll" }
