package adapter

import "context"

// SMSResult is what the gateway reports for an accepted message.
type SMSResult struct {
	SID    string
	Status string
}

// SMSSender delivers a single text message.
type SMSSender interface {
	Send(ctx context.Context, to, body string) (SMSResult, error)
}
