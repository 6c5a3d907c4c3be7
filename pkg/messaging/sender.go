package messaging

import (
	"context"
	"errors"
)

// ErrRejected is returned when the channel answered but refused the message.
var ErrRejected = errors.New("message rejected by channel")

// Message is one outbound coaching message.
type Message struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	Body     string `json:"body"`
}

// Sender delivers a message to a member's chat identity.
type Sender interface {
	Send(ctx context.Context, externalUserID string, msg Message) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, externalUserID string, msg Message) error

func (f SenderFunc) Send(ctx context.Context, externalUserID string, msg Message) error {
	return f(ctx, externalUserID, msg)
}
