package sms

import (
	"context"

	"poster-commerce/internal/domain/ports/adapter"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var _ adapter.SMSSender = (*NoopSender)(nil)

// NoopSender logs messages instead of sending them. Used when sms.enabled is false.
type NoopSender struct {
	log *zerolog.Logger
}

func NewNoopSender(logger *zerolog.Logger) *NoopSender {
	l := logger.With().Str("component", "NoopSMS").Logger()
	return &NoopSender{log: &l}
}

func (n *NoopSender) Send(ctx context.Context, to, body string) (adapter.SMSResult, error) {
	n.log.Info().Str("to", to).Int("len", len(body)).Msg("sms not sent (disabled)")
	return adapter.SMSResult{SID: "noop-" + uuid.NewString(), Status: "skipped"}, nil
}
