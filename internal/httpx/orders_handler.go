package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/herlambang/storefront-inventory/internal/inventory"
	"github.com/herlambang/storefront-inventory/internal/redisx"
)

type CreateOrderReq struct {
	Lines          []inventory.CartLine `json:"lines"`
	DeliveryMethod string               `json:"delivery_method"`
	CreatedSource  string               `json:"created_source"`
	Carrier        string               `json:"carrier,omitempty"`
	TrackingCode   string               `json:"tracking_code,omitempty"`
}

type CreateOrderResp struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.Engine.CreateOrder(ctx, inventory.CreateOrderInput{
		Lines:          req.Lines,
		DeliveryMethod: inventory.DeliveryMethod(req.DeliveryMethod),
		CreatedSource:  inventory.CreatedSource(req.CreatedSource),
		Carrier:        req.Carrier,
		TrackingCode:   req.TrackingCode,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.cacheOrderStatus(ctx, order.ID, order.ShippingStatus)

	if h.ProducerCreated != nil {
		value := h.envelope(inventory.EventOrderCreated, order.ID, r.Header.Get("X-Request-Id"),
			inventory.OrderCreatedPayload{
				OrderID:        order.ID,
				OrderNumber:    order.OrderNumber,
				DeliveryMethod: order.DeliveryMethod,
				CreatedSource:  order.CreatedSource,
				Lines:          req.Lines,
			})
		h.ProducerCreated.Publish(inventory.PartitionKey(order.ID), value,
			eventHeaders(inventory.EventOrderCreated)...)
	}

	writeJSON(w, http.StatusCreated, CreateOrderResp{OrderID: order.ID, OrderNumber: order.OrderNumber})
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	order, err := h.Engine.GetOrder(ctx, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) getOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// cache first, store as fallback
	if h.Redis != nil {
		key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			writeJSON(w, http.StatusOK, json.RawMessage(s))
			return
		}
	}

	order, err := h.Engine.GetOrder(ctx, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	h.cacheOrderStatus(ctx, order.ID, order.ShippingStatus)
	writeJSON(w, http.StatusOK, map[string]any{"status": order.ShippingStatus})
}

type UpdateFulfillmentReq struct {
	Status       string `json:"status,omitempty"`
	Carrier      string `json:"carrier,omitempty"`
	TrackingCode string `json:"tracking_code,omitempty"`
	Actor        string `json:"actor,omitempty"`
}

type UpdateFulfillmentResp struct {
	OrderID       string                   `json:"order_id"`
	Status        inventory.ShippingStatus `json:"status"`
	StockConsumed bool                     `json:"stock_consumed"`
	SerialsSold   int                      `json:"serials_sold"`
}

func (h *Handler) updateFulfillment(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	var req UpdateFulfillmentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.Engine.UpdateFulfillment(ctx, orderID, inventory.FulfillmentUpdate{
		Status:       inventory.ShippingStatus(req.Status),
		Carrier:      req.Carrier,
		TrackingCode: req.TrackingCode,
		Actor:        req.Actor,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.cacheOrderStatus(ctx, res.Order.ID, res.Order.ShippingStatus)

	if res.StockConsumed && h.ProducerFulfilled != nil {
		var productIDs []string
		seen := map[string]bool{}
		for _, it := range res.Order.Items {
			if !seen[it.ProductID] {
				seen[it.ProductID] = true
				productIDs = append(productIDs, it.ProductID)
			}
		}
		value := h.envelope(inventory.EventOrderFulfilled, res.Order.ID, r.Header.Get("X-Request-Id"),
			inventory.OrderFulfilledPayload{
				OrderID:     res.Order.ID,
				OrderNumber: res.Order.OrderNumber,
				Status:      res.Order.ShippingStatus,
				ProductIDs:  productIDs,
				SerialsSold: res.SerialsSold,
			})
		h.ProducerFulfilled.Publish(inventory.PartitionKey(res.Order.ID), value,
			eventHeaders(inventory.EventOrderFulfilled)...)
	}

	writeJSON(w, http.StatusOK, UpdateFulfillmentResp{
		OrderID:       res.Order.ID,
		Status:        res.Order.ShippingStatus,
		StockConsumed: res.StockConsumed,
		SerialsSold:   res.SerialsSold,
	})
}
