package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/example/marketplace/internal/infrastructure/store"
	"github.com/example/marketplace/internal/model"
	"github.com/example/marketplace/internal/realtime"
)

var (
	ErrEmptyOrder            = errors.New("items array is required and cannot be empty")
	ErrMissingField          = errors.New("missing required fields: productName, productId, ownerId, quantity, totalCost")
	ErrInvalidQuantity       = errors.New("quantity must be a positive number")
	ErrInvalidCost           = errors.New("totalCost must be a non-negative number")
	ErrInvalidShippingStatus = errors.New("shippingStatus must be one of: pending, shipped, delivered")
	ErrProductNotFound       = errors.New("product not found")
	ErrOrderNotFound         = errors.New("order not found")
	ErrItemNotFound          = errors.New("item not found in order")
	ErrInvalidOrderStatus    = errors.New("orderStatus must be one of: pending, processing, completed, cancelled")
)

// LineError reports which line of a proposed order failed validation and
// why. Validation short-circuits on the first failing line.
type LineError struct {
	Index int
	Err   error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("item at index %d: %v", e.Index, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// LineRequest is one proposed order line. TotalCost is a pointer so an
// absent cost can be told apart from an explicit zero.
type LineRequest struct {
	ProductName    string   `json:"productName"`
	ProductID      string   `json:"productId"`
	OwnerID        string   `json:"ownerId"`
	Quantity       int      `json:"quantity"`
	TotalCost      *float64 `json:"totalCost"`
	ShippingStatus string   `json:"shippingStatus,omitempty"`
}

// ItemView is an order line enriched with display fields.
type ItemView struct {
	model.OrderItem
	OwnerName   string  `json:"ownerName,omitempty"`
	ProductCost float64 `json:"productCost,omitempty"`
}

// View is an order enriched with display fields resolved at read time.
// The persisted reference fields are untouched by enrichment.
type View struct {
	ID             string            `json:"id"`
	CustomerID     string            `json:"customerId"`
	CustomerName   string            `json:"customerName,omitempty"`
	CustomerEmail  string            `json:"customerEmail,omitempty"`
	Items          []ItemView        `json:"items"`
	TotalOrderCost float64           `json:"totalOrderCost"`
	OrderStatus    model.OrderStatus `json:"orderStatus"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// EventOrderPlaced is published to the event bus after an order is
// persisted.
const EventOrderPlaced = "order.placed"

// OrderPlaced is the event payload for EventOrderPlaced.
type OrderPlaced struct {
	OrderID    string            `json:"orderId"`
	CustomerID string            `json:"customerId"`
	Items      []model.OrderItem `json:"items"`
	Total      float64           `json:"total"`
	PlacedAt   time.Time         `json:"placedAt"`
}

// Publisher publishes domain events to the event bus. Implementations
// must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, key, eventType string, payload any) error
}

// RoomEmitter pushes an event into a realtime room. Delivery is
// fire-and-forget.
type RoomEmitter interface {
	EmitToRoom(room, event string, payload any)
}

// Service owns the order workflow: validation against live catalog state,
// total computation, persistence, and best-effort notification.
type Service struct {
	store     store.Store
	emitter   RoomEmitter
	publisher Publisher
}

// NewService creates an order service. Both emitter and publisher may be
// nil; notification and event publication are then skipped.
func NewService(st store.Store, emitter RoomEmitter, publisher Publisher) *Service {
	return &Service{store: st, emitter: emitter, publisher: publisher}
}

// Create validates the proposed lines in sequence order, short-circuiting
// on the first failure, then persists the order with status pending.
// Nothing is persisted on any validation failure. After persistence the
// customer's private room is notified and an order.placed event is
// published; both are best-effort and never undo the order.
func (s *Service) Create(ctx context.Context, customerID string, lines []LineRequest) (*View, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	items := make([]model.OrderItem, 0, len(lines))
	var total float64

	for i, line := range lines {
		item, err := s.validateLine(ctx, line)
		if err != nil {
			return nil, &LineError{Index: i, Err: err}
		}
		items = append(items, *item)
		total += item.TotalCost
	}

	now := time.Now()
	o := &model.Order{
		ID:             uuid.New().String(),
		CustomerID:     customerID,
		Items:          items,
		TotalOrderCost: total,
		OrderStatus:    model.OrderPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.InsertOrder(ctx, o); err != nil {
		return nil, err
	}

	s.notifyPlaced(ctx, o)

	return s.resolve(ctx, o), nil
}

// validateLine applies the per-line rules in order: required fields,
// positive quantity, non-negative cost, shipping status enum, product
// existence.
func (s *Service) validateLine(ctx context.Context, line LineRequest) (*model.OrderItem, error) {
	if line.ProductName == "" || line.ProductID == "" || line.OwnerID == "" ||
		line.Quantity == 0 || line.TotalCost == nil {
		return nil, ErrMissingField
	}
	if line.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	if *line.TotalCost < 0 {
		return nil, ErrInvalidCost
	}

	shipping := model.ShippingPending
	if line.ShippingStatus != "" {
		shipping = model.ShippingStatus(line.ShippingStatus)
		if !shipping.Valid() {
			return nil, ErrInvalidShippingStatus
		}
	}

	if _, err := s.store.FindProductByID(ctx, line.ProductID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	return &model.OrderItem{
		ID:             uuid.New().String(),
		ProductName:    line.ProductName,
		ProductID:      line.ProductID,
		OwnerID:        line.OwnerID,
		Quantity:       line.Quantity,
		TotalCost:      *line.TotalCost,
		ShippingStatus: shipping,
	}, nil
}

// notifyPlaced emits into the customer's private room and publishes to
// the event bus. Failures are logged and swallowed: the order is already
// durable and must not be undone by a notification problem.
func (s *Service) notifyPlaced(ctx context.Context, o *model.Order) {
	event := OrderPlaced{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Items:      o.Items,
		Total:      o.TotalOrderCost,
		PlacedAt:   o.CreatedAt,
	}

	if s.emitter != nil {
		s.emitter.EmitToRoom(realtime.UserRoom(o.CustomerID), "order_created", event)
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, o.ID, EventOrderPlaced, event); err != nil {
			log.Printf("[Order] Failed to publish %s for order %s: %v", EventOrderPlaced, o.ID, err)
		}
	}
}

// SetStatus changes a whole order's status. Any status can follow any
// other; no transition table restricts them.
func (s *Service) SetStatus(ctx context.Context, orderID string, status model.OrderStatus) (*View, error) {
	if !status.Valid() {
		return nil, ErrInvalidOrderStatus
	}

	o, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}

	o.OrderStatus = status
	o.UpdatedAt = time.Now()
	if err := s.store.UpdateOrder(ctx, o); err != nil {
		return nil, err
	}

	if s.emitter != nil {
		s.emitter.EmitToRoom(realtime.UserRoom(o.CustomerID), "order_status_changed", map[string]any{
			"orderId":     o.ID,
			"orderStatus": o.OrderStatus,
		})
	}

	return s.resolve(ctx, o), nil
}

// SetItemShippingStatus changes one line's shipping status. The order
// total is never recomputed.
func (s *Service) SetItemShippingStatus(ctx context.Context, orderID, itemID string, status model.ShippingStatus) (*View, error) {
	if !status.Valid() {
		return nil, ErrInvalidShippingStatus
	}

	o, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			o.Items[i].ShippingStatus = status
			found = true
			break
		}
	}
	if !found {
		return nil, ErrItemNotFound
	}

	o.UpdatedAt = time.Now()
	if err := s.store.UpdateOrder(ctx, o); err != nil {
		return nil, err
	}

	if s.emitter != nil {
		s.emitter.EmitToRoom(realtime.UserRoom(o.CustomerID), "shipping_status_changed", map[string]any{
			"orderId":        o.ID,
			"itemId":         itemID,
			"shippingStatus": status,
		})
	}

	return s.resolve(ctx, o), nil
}

// List returns all orders, newest first, with references resolved.
func (s *Service) List(ctx context.Context) ([]*View, error) {
	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]*View, 0, len(orders))
	for _, o := range orders {
		views = append(views, s.resolve(ctx, o))
	}
	return views, nil
}

// Get returns one order with references resolved.
func (s *Service) Get(ctx context.Context, orderID string) (*View, error) {
	o, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, o), nil
}

func (s *Service) load(ctx context.Context, orderID string) (*model.Order, error) {
	o, err := s.store.FindOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

// resolve builds the display projection with an explicit batch of
// reference lookups: customer name/email, line owner names, and current
// product costs. A reference that no longer resolves leaves its display
// fields empty.
func (s *Service) resolve(ctx context.Context, o *model.Order) *View {
	view := &View{
		ID:             o.ID,
		CustomerID:     o.CustomerID,
		Items:          make([]ItemView, 0, len(o.Items)),
		TotalOrderCost: o.TotalOrderCost,
		OrderStatus:    o.OrderStatus,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}

	if customer, err := s.store.FindUserByID(ctx, o.CustomerID); err == nil {
		view.CustomerName = customer.FullName
		view.CustomerEmail = customer.Email
	}

	owners := make(map[string]string)
	costs := make(map[string]float64)
	for _, item := range o.Items {
		iv := ItemView{OrderItem: item}

		if name, ok := owners[item.OwnerID]; ok {
			iv.OwnerName = name
		} else if owner, err := s.store.FindUserByID(ctx, item.OwnerID); err == nil {
			owners[item.OwnerID] = owner.FullName
			iv.OwnerName = owner.FullName
		}

		if cost, ok := costs[item.ProductID]; ok {
			iv.ProductCost = cost
		} else if p, err := s.store.FindProductByID(ctx, item.ProductID); err == nil {
			costs[item.ProductID] = p.Cost
			iv.ProductCost = p.Cost
		}

		view.Items = append(view.Items, iv)
	}

	return view
}
