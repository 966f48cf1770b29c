// Package notification turns activity events into customer emails.
package notification

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/example/ec-shop-api/internal/domain/activity"
	"github.com/example/ec-shop-api/internal/email"
)

// Sender is the email surface the handler needs.
type Sender interface {
	SendOrderConfirmation(to, orderID, totalAmount string) error
}

type Handler struct {
	sender Sender
	logger *slog.Logger
}

func NewHandler(sender Sender, logger *slog.Logger) *Handler {
	return &Handler{sender: sender, logger: logger}
}

// HandleEvent processes one activity event from the stream. Only completed
// order activities produce mail; everything else is ignored.
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var rec activity.Record
	if err := json.Unmarshal(value, &rec); err != nil {
		h.logger.Warn("failed to decode activity event", "error", err)
		return err
	}

	if rec.EntityType != activity.EntityOrder || rec.Status != activity.StatusCompleted {
		return nil
	}
	if rec.UserEmail == "" {
		h.logger.Warn("order activity without user email", "order_id", rec.EntityID)
		return nil
	}

	total := rec.Details["total_amount"]
	if err := h.sender.SendOrderConfirmation(rec.UserEmail, rec.EntityID, total); err != nil {
		h.logger.Warn("order confirmation email failed", "order_id", rec.EntityID, "error", err)
		return err
	}

	h.logger.Info("order confirmation sent", "order_id", rec.EntityID, "to", rec.UserEmail)
	return nil
}

var _ Sender = (*email.Service)(nil)
