package notify

import (
	"github.com/rs/zerolog/log"

	"dsarportal/internal/platform/config"
)

// Mailer is a delivery stub: notifications are logged, not sent. The SMTP
// settings are carried so a real provider can be dropped in without touching
// call sites.
type Mailer struct {
	cfg config.EmailConfig
}

func NewMailer(cfg config.EmailConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// SubmissionReceived acknowledges a new portal submission to the requester
// and flags the company inbox.
func (m *Mailer) SubmissionReceived(requesterEmail, dsarID, companyID string) {
	log.Info().
		Str("provider", m.cfg.Provider).
		Str("to", requesterEmail).
		Str("dsar_id", dsarID).
		Str("company_id", companyID).
		Msg("email stub: dsar submission notification")
}

// RequesterContacted relays a dashboard message to the requester.
func (m *Mailer) RequesterContacted(fromEmail, companyName, toEmail, message string) {
	log.Info().
		Str("provider", m.cfg.Provider).
		Str("from", fromEmail).
		Str("company", companyName).
		Str("to", toEmail).
		Str("message", message).
		Msg("email stub: contact requester")
}
