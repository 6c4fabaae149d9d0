package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/marketplace/internal/domain/order"
	"github.com/example/marketplace/internal/email"
	"github.com/example/marketplace/internal/infrastructure/kafka"
	"github.com/example/marketplace/internal/infrastructure/store"
)

// Handler turns order events from the bus into customer emails.
type Handler struct {
	emailService *email.Service
	store        store.Store
}

func NewHandler(emailSvc *email.Service, st store.Store) *Handler {
	return &Handler{
		emailService: emailSvc,
		store:        st,
	}
}

// HandleEvent processes one event from the bus. Events other than
// order.placed are ignored.
func (h *Handler) HandleEvent(ctx context.Context, env kafka.Envelope) error {
	if env.Type != order.EventOrderPlaced {
		return nil
	}
	return h.handleOrderPlaced(ctx, env)
}

func (h *Handler) handleOrderPlaced(ctx context.Context, env kafka.Envelope) error {
	var e order.OrderPlaced
	if err := json.Unmarshal(env.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal %s event: %v", env.Type, err)
		return err
	}

	log.Printf("[Notifier] Processing %s for order %s, customer %s", env.Type, e.OrderID, e.CustomerID)

	customer, err := h.store.FindUserByID(ctx, e.CustomerID)
	if err != nil {
		// The customer record is gone or unreadable; nothing to send.
		log.Printf("[Notifier] Cannot load customer %s: %v", e.CustomerID, err)
		return nil
	}

	lines := make([]email.OrderLine, len(e.Items))
	for i, item := range e.Items {
		lines[i] = email.OrderLine{
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			TotalCost:      item.TotalCost,
			ShippingStatus: string(item.ShippingStatus),
		}
	}

	if err := h.emailService.SendOrderConfirmation(customer.Email, customer.FullName, e.OrderID, e.Total, lines); err != nil {
		log.Printf("[Notifier] Failed to send email to %s: %v", customer.Email, err)
		return err
	}

	log.Printf("[Notifier] Order confirmation sent to %s for order %s", customer.Email, e.OrderID)
	return nil
}
