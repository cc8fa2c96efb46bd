package email

import (
	"context"
	"encoding/json"

	"eauction-service/internal/domain/shared"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// DefaultSubject is the NATS subject the mailer worker consumes
const DefaultSubject = "eauction.email.send"

// NatsDispatcher hands email jobs to the external mailer worker over NATS.
// Delivery is best-effort: a publish failure is logged and swallowed so a
// mail outage can never fail the auction transition that requested it.
type NatsDispatcher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

type NatsDispatcherParams struct {
	Conn    *nats.Conn
	Subject string
	Logger  zerolog.Logger
}

// NewNatsDispatcher creates a new NATS email dispatcher
func NewNatsDispatcher(params NatsDispatcherParams) *NatsDispatcher {
	subject := params.Subject
	if subject == "" {
		subject = DefaultSubject
	}
	return &NatsDispatcher{
		conn:    params.Conn,
		subject: subject,
		logger:  params.Logger.With().Str("component", "email_dispatcher").Logger(),
	}
}

// Send publishes the email job to the mailer subject
func (d *NatsDispatcher) Send(ctx context.Context, msg shared.EmailMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		d.logger.Error().Err(err).Str("to", msg.To).Msg("Failed to marshal email job")
		return nil
	}

	if err := d.conn.Publish(d.subject, payload); err != nil {
		d.logger.Warn().Err(err).Str("to", msg.To).Str("subject", msg.Subject).Msg("Failed to publish email job")
		return nil
	}

	d.logger.Debug().Str("to", msg.To).Str("subject", msg.Subject).Msg("Email job dispatched")
	return nil
}
