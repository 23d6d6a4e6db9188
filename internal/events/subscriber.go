package events

import "context"

// Message is a decoded event together with the subject it arrived on.
type Message struct {
	Topic string `json:"topic"`
	Conversion
}

// Subscriber streams conversion events for watchers such as the CLI.
type Subscriber interface {
	// Subscribe delivers events matching topic until ctx is done, then
	// closes the channel. Payloads that are not a Conversion are skipped.
	Subscribe(ctx context.Context, topic string) (<-chan Message, error)
	Close() error
}
