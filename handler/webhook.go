package handler

import (
	"encoding/json"
	"errors"
	"io/ioutil"
	"net/http"

	"event-tickets-backend/logger"
	"event-tickets-backend/payment"
	"event-tickets-backend/response"
	"event-tickets-backend/ticket"
)

// maxWebhookBody caps the raw payload read; provider webhooks are small.
const maxWebhookBody = 1 << 20

// PaymentWebhook ingests payment provider events. The signature is
// verified over the raw body before any parsing; a bad signature is a
// hard 400 so the provider does not retry it forever.
func PaymentWebhook(service *ticket.Service, verifier *payment.WebhookVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		payload, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
		if err != nil {
			logger.Errorf(ctx, "paymentWebhook: error reading payload: %+v", err)
			response.BadRequest("unable to read payload").Send(ctx, w)
			return
		}

		event, err := verifier.ConstructEvent(payload, r.Header.Get(payment.SignatureHeader))
		if errors.Is(err, payment.ErrInvalidSignature) {
			response.BadRequest("invalid signature").Send(ctx, w)
			return
		}
		if err != nil {
			logger.Errorf(ctx, "paymentWebhook: error parsing event: %+v", err)
			response.BadRequest("invalid payload").Send(ctx, w)
			return
		}

		if err := service.HandleWebhook(ctx, event); err != nil {
			// Non-2xx makes the provider redeliver; the handler is
			// idempotent so a retry is safe.
			logger.Errorf(ctx, "paymentWebhook: error handling %s: %+v", event.Type, err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]bool{"received": true})
	}
}
