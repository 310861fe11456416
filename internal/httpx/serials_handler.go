package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/herlambang/storefront-inventory/internal/inventory"
)

type ImportSerialsReq struct {
	Codes            []string `json:"codes"`
	CostCents        int      `json:"cost_cents,omitempty"`
	WarrantyProvider string   `json:"warranty_provider,omitempty"`
	WarrantyMonths   int      `json:"warranty_months,omitempty"`
	VariantKey       string   `json:"variant_key,omitempty"`
}

func (h *Handler) importSerials(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	var req ImportSerialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := h.Engine.BulkImport(ctx, productID, req.Codes, inventory.SerialDefaults{
		CostCents:        req.CostCents,
		WarrantyProvider: req.WarrantyProvider,
		WarrantyMonths:   req.WarrantyMonths,
		VariantKey:       req.VariantKey,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type ReserveSerialsReq struct {
	OrderID string   `json:"order_id"`
	Codes   []string `json:"codes"`
}

func (h *Handler) reserveSerials(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	var req ReserveSerialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Engine.ReserveSerials(ctx, productID, req.OrderID, req.Codes); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": "reserved"})
}

func (h *Handler) listSerials(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	units, err := h.Engine.ListSerials(ctx, productID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, units)
}

func (h *Handler) listOrderSerials(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	units, err := h.Engine.ListSerialsByOrder(ctx, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, units)
}
