package ingest

import (
	"encoding/json"
	"net/http"

	"github.com/moviezone/moviezone/pkg/telegram"
)

// webhookAck is the fixed response body for every webhook call. The platform
// disables or retry-storms webhooks that answer with errors, so processing
// failures stay internal.
var webhookAck = []byte(`{"success":true}` + "\n")

// Webhook returns the HTTP handler for inbound bot-platform updates. It
// always answers 200 regardless of processing outcome.
func (i *Ingestor) Webhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var upd telegram.Update
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			i.log.Warn("malformed webhook payload", "error", err)
			ack(w)
			return
		}

		if err := i.ProcessUpdate(r.Context(), upd); err != nil {
			i.log.Warn("webhook processing failed", "error", err)
		}
		ack(w)
	}
}

func ack(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(webhookAck)
}
