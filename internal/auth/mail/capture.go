package mail

import (
	"context"
	"errors"
	"sync"
)

// Capture is a Mailer for tests. Set FailWith to make sends fail.
type Capture struct {
	mu       sync.Mutex
	sent     []Message
	FailWith error
}

var ErrDeliveryRefused = errors.New("mail: delivery refused")

func (c *Capture) Send(ctx context.Context, msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FailWith != nil {
		return c.FailWith
	}
	c.sent = append(c.sent, msg)
	return nil
}

func (c *Capture) Sent() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.sent))
	copy(out, c.sent)
	return out
}

func (c *Capture) Last() (Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.sent) == 0 {
		return Message{}, false
	}
	return c.sent[len(c.sent)-1], true
}
