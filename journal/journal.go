package journal

import (
	"context"
	"time"
)

// Entry describes one provider attempt. Image bytes are never recorded.
type Entry struct {
	RequestID  string
	Provider   string
	Outcome    string
	Reason     string
	Error      string
	Duration   time.Duration
	OccurredAt time.Time
}

type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

type Nop struct{}

func (Nop) Record(context.Context, Entry) error {
	return nil
}
