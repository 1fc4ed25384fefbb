package email

import (
	"context"
	"time"
)

// SendRequest contains the data needed to send an email via an external provider.
type SendRequest struct {
	To      []string
	From    string // overrides the sender default, e.g. "Connect <hello@connect.example>"
	Subject string
	HTML    string
	Text    string
	ReplyTo string
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers transactional mail.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
