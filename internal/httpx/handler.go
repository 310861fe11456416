package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/herlambang/storefront-inventory/internal/inventory"
	kafkax "github.com/herlambang/storefront-inventory/internal/kafka"
	"github.com/herlambang/storefront-inventory/internal/redisx"
)

// Engine is the slice of the inventory repo the HTTP layer needs; tests
// substitute a fake.
type Engine interface {
	CreateOrder(ctx context.Context, in inventory.CreateOrderInput) (*inventory.Order, error)
	UpdateFulfillment(ctx context.Context, orderID string, upd inventory.FulfillmentUpdate) (*inventory.FulfillmentResult, error)
	GetOrder(ctx context.Context, orderID string) (*inventory.Order, error)
	ListLedger(ctx context.Context, productID string, limit int) ([]inventory.LedgerEntry, error)
	RecordStockIn(ctx context.Context, productID string, qty, costCents int, actor string) error
	ListLowStock(ctx context.Context) ([]inventory.Product, error)
	BulkImport(ctx context.Context, productID string, codes []string, defaults inventory.SerialDefaults) (*inventory.BulkImportResult, error)
	ReserveSerials(ctx context.Context, productID, orderID string, codes []string) error
	ListSerials(ctx context.Context, productID string) ([]inventory.SerialUnit, error)
	ListSerialsByOrder(ctx context.Context, orderID string) ([]inventory.SerialUnit, error)
}

// Publisher matches the kafka producer's Publish signature.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type Handler struct {
	Engine            Engine
	ProducerCreated   Publisher
	ProducerFulfilled Publisher
	Redis             *redis.Client
	Service           string
}

func (h *Handler) Register(r *chi.Mux) {
	r.Post("/orders", h.createOrder)
	r.Get("/orders/{id}", h.getOrder)
	r.Get("/orders/{id}/status", h.getOrderStatus)
	r.Patch("/orders/{id}/fulfillment", h.updateFulfillment)
	r.Get("/orders/{id}/serials", h.listOrderSerials)
	r.Get("/products/low-stock", h.listLowStock)
	r.Get("/products/{id}/ledger", h.listLedger)
	r.Post("/products/{id}/restock", h.restock)
	r.Get("/products/{id}/serials", h.listSerials)
	r.Post("/products/{id}/serials/import", h.importSerials)
	r.Post("/products/{id}/serials/reserve", h.reserveSerials)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the engine's error taxonomy onto HTTP codes. Stock and
// serial conflicts are actionable for the shopper (409); not-found and
// invalid input indicate a client or data bug.
func writeError(w http.ResponseWriter, err error) {
	var stockErr *inventory.StockInsufficientError
	var serialErr *inventory.SerialUnavailableError
	switch {
	case errors.As(err, &stockErr), errors.As(err, &serialErr):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, inventory.ErrProductNotFound),
		errors.Is(err, inventory.ErrOrderNotFound),
		errors.Is(err, inventory.ErrSerialNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, inventory.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func (h *Handler) envelope(eventType, correlationID, traceID string, payload any) []byte {
	ev := inventory.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       traceID,
		CorrelationID: correlationID,
	}
	ev.Payload = kafkax.MustMarshal(payload)
	return kafkax.MustMarshal(ev)
}

func eventHeaders(eventType string) []kafkago.Header {
	return []kafkago.Header{
		{Key: "x-event-type", Value: []byte(eventType)},
		{Key: "x-event-version", Value: []byte("1")},
	}
}

func (h *Handler) cacheOrderStatus(ctx context.Context, orderID string, status inventory.ShippingStatus) {
	if h.Redis == nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	b, _ := json.Marshal(map[string]any{"status": status})
	_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()
}
