package mail

//go:generate mockgen -source=sender.go -destination=mocks/mock_sender.go -package=mocks

import "context"

type Message struct {
	Subject string
	Body    string
	From    string
	To      string
}

// Sender delivers a message. Delivery is best effort and never transactional
// with the caller's writes.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
