package emails

import "context"

// Message is one rendered transactional email.
type Message struct {
	FromEmail string
	FromName  string
	ToEmail   string
	ToName    string
	Subject   string
	HTML      string
}

// Sender delivers one message through a provider. Implementations do not
// retry; a failed send surfaces to the caller, who resubmits manually.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
