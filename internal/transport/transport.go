// Package transport delivers one built message to one recipient. Two
// implementations exist: a network-free simulation for demonstration and
// development, and a real SMTP client. Which one runs is decided once at
// construction time.
package transport

import (
	"context"

	"github.com/MartyrMind/email-cli-app/internal/message"
	"github.com/MartyrMind/email-cli-app/internal/task"
)

// Transport sends a built message to a single recipient. A nil error means
// the attempt succeeded; any error is reported as a failed attempt and is
// never retried.
type Transport interface {
	// Name returns the transport identifier (e.g. "smtp", "simulated").
	Name() string
	// Send performs exactly one delivery attempt for (t, recipient).
	Send(ctx context.Context, t task.EmailTask, msg *message.Message, recipient string) error
}
