package inventory

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated   = "OrderCreated"
	EventOrderFulfilled = "OrderFulfilled"
	EventStockLow       = "StockLow"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id or product_id
	Payload       json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID        string         `json:"order_id"`
	OrderNumber    string         `json:"order_number"`
	DeliveryMethod DeliveryMethod `json:"delivery_method"`
	CreatedSource  CreatedSource  `json:"created_source"`
	Lines          []CartLine     `json:"lines"`
}

type OrderFulfilledPayload struct {
	OrderID     string         `json:"order_id"`
	OrderNumber string         `json:"order_number"`
	Status      ShippingStatus `json:"status"`
	ProductIDs  []string       `json:"product_ids"`
	SerialsSold int            `json:"serials_sold,omitempty"`
}

type StockLowPayload struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Reserved  int    `json:"reserved"`
}
