package mailer

import "context"

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

type Message struct {
	To      string
	CC      string
	Subject string
	HTML    string
}

// Result is always returned, never an error: notification failure must not
// roll back the transition that triggered it. Callers decide whether a
// failed Result is fatal (only the attendance audit flow persists it).
type Result struct {
	Status Status
	Err    error
}

func (r Result) OK() bool { return r.Status == StatusSuccess }

// Mailer is the outbound notification capability. Implementations must not
// panic and must not return before producing a Result.
type Mailer interface {
	Send(ctx context.Context, msg Message) Result
}

func Success() Result { return Result{Status: StatusSuccess} }

func Failure(err error) Result { return Result{Status: StatusFailed, Err: err} }
