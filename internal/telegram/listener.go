package telegram

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// UpdateHandler consumes one incoming update. Handlers run on the
// listener goroutine, one update at a time.
type UpdateHandler func(ctx context.Context, update Update)

// WebhookHandler returns an http.Handler that decodes Bot API webhook
// calls and feeds them to the handler. Mount it on a secret path (the bot
// token) so only Telegram can reach it.
func (c *Client) WebhookHandler(handle UpdateHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			http.Error(w, "bad update payload", http.StatusBadRequest)
			return
		}
		handle(r.Context(), update)
		w.WriteHeader(http.StatusOK)
	}
}

// Poll long-polls getUpdates and feeds each update to the handler until
// the context is cancelled. Used when no callback URL is configured.
func (c *Client) Poll(ctx context.Context, handle UpdateHandler) error {
	var offset int64

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		updates, err := c.GetUpdates(ctx, offset, 50*time.Second)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("Telegram polling error: %v", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(3 * time.Second):
			}
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			handle(ctx, update)
		}
	}
}
