package queue

import "context"

// Job handles one message type pulled off the queue. The refresh
// scheduler registers one Job per background task.
type Job interface {
	// Name is the human-readable identifier used in logs.
	Name() string

	// Type is the message type this job consumes.
	Type() string

	// Handle processes one payload.
	Handle(ctx context.Context, payload any) error
}
