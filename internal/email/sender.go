// Package email is the outbound mail transport. The rest of the system only
// sees the Sender interface; delivery failures are the caller's to log and
// swallow, never to roll back state on.
package email

import "context"

type Message struct {
	To      string
	Subject string
	HTML    string
}

// Result carries the transport-assigned id for the accepted message.
type Result struct {
	MessageID string
}

type Sender interface {
	Send(ctx context.Context, msg Message) (Result, error)
}
