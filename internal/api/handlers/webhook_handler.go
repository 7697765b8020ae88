package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"dsarportal/internal/engine/billing"
	"dsarportal/internal/pkg/errors"
	"dsarportal/internal/platform/config"
	"dsarportal/internal/platform/repositories"
)

const maxWebhookBody = 1 << 20 // 1 MiB

// WebhookHandler consumes payment-provider events and mirrors subscription
// state onto the company record.
type WebhookHandler struct {
	companyRepo *repositories.CompanyRepository
	cfg         config.BillingConfig
}

func NewWebhookHandler(companyRepo *repositories.CompanyRepository, cfg config.BillingConfig) *WebhookHandler {
	return &WebhookHandler{companyRepo: companyRepo, cfg: cfg}
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Failed to read request body", nil)
		return
	}

	// Signature verification is mandatory before the body is trusted; no
	// database access happens before this point.
	sig := r.Header.Get("Stripe-Signature")
	if err := billing.VerifySignature(sig, payload, h.cfg.WebhookSecret, h.cfg.SignatureMaxAge, time.Now()); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeWebhookBadSig, "Webhook signature verification failed", nil)
		return
	}

	event, err := billing.ParseEvent(payload)
	if err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Malformed event payload", nil)
		return
	}

	switch event.Type {
	case billing.EventCheckoutCompleted:
		session, err := event.CheckoutSession()
		if err != nil {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Malformed checkout session", nil)
			return
		}
		companyID := session.Metadata["companyId"]
		if companyID != "" {
			if err := h.companyRepo.ActivateSubscription(companyID, session.Customer, session.Subscription); err != nil {
				log.Error().Err(err).Str("company_id", companyID).Msg("failed to activate subscription")
				errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodePersistence, "Failed to apply event", nil)
				return
			}
			log.Info().Str("company_id", companyID).Str("subscription_id", session.Subscription).Msg("subscription activated")
		}

	case billing.EventSubscriptionDeleted:
		sub, err := event.Subscription()
		if err != nil {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Malformed subscription", nil)
			return
		}
		if err := h.companyRepo.DeactivateSubscriptionBySubscriptionID(sub.ID); err != nil {
			log.Error().Err(err).Str("subscription_id", sub.ID).Msg("failed to deactivate subscription")
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodePersistence, "Failed to apply event", nil)
			return
		}
		log.Info().Str("subscription_id", sub.ID).Msg("subscription deactivated")

	default:
		// Unhandled event kinds are acknowledged without processing.
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"received": true})
}
