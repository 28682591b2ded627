package provider

import (
	"fmt"
	"tryon/converter"
)

type Outcome int

const (
	Success Outcome = iota
	Recoverable
	Fatal
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Recoverable:
		return "recoverable"
	case Fatal:
		return "fatal"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

type Reason struct {
	s string
}

var (
	RateLimited       = Reason{"rate_limited"}
	QuotaExhausted    = Reason{"quota_exhausted"}
	MalformedResponse = Reason{"malformed_response"}
	TransportError    = Reason{"transport_error"}
)

func (r Reason) String() string {
	return r.s
}

// AttemptResult is the outcome of one provider call. Image and Message are
// set for Success, Reason for Recoverable, Err for both failure kinds.
type AttemptResult struct {
	Outcome Outcome
	Image   converter.Payload
	Message string
	Reason  Reason
	Err     error
}

func Succeeded(image converter.Payload, message string) AttemptResult {
	return AttemptResult{Outcome: Success, Image: image, Message: message}
}

func Failed(reason Reason, err error) AttemptResult {
	return AttemptResult{Outcome: Recoverable, Reason: reason, Err: err}
}

func Aborted(err error) AttemptResult {
	return AttemptResult{Outcome: Fatal, Err: err}
}
