// Package events publishes summaries of conversions handled by the service.
// Payloads carry counts and sizes only, never document content.
package events

import (
	"context"

	"github.com/alfredjeanlab/confighelper/internal/model"
)

// Topics. SubjectAll matches every topic.
const (
	TopicConfigImported = "confighelper.config.imported"
	TopicConfigExported = "confighelper.config.exported"
	TopicConfigRejected = "confighelper.config.rejected"

	SubjectAll = "confighelper.>"
)

// Conversion describes one import or export request.
type Conversion struct {
	RequestID string `json:"request_id"`
	Operation string `json:"operation"` // "import" or "export"
	model.Summary
	Bytes  int    `json:"bytes"`
	Reason string `json:"reason,omitempty"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
