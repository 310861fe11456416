package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/herlambang/storefront-inventory/internal/postgres"
)

type Repo struct{ DB *pgxpool.Pool }

type reservationPool int

const (
	poolReserved reservationPool = iota
	poolStaffReserved
)

// CartLine is one cart entry as handed over by the cart collaborator.
// Price is trusted as supplied; the engine does not re-check the catalog.
type CartLine struct {
	ProductID    string `json:"product_id"`
	VariantSize  string `json:"variant_size,omitempty"`
	VariantColor string `json:"variant_color,omitempty"`
	Qty          int    `json:"qty"`
	PriceCents   int    `json:"price_cents"`
}

type CreateOrderInput struct {
	Lines          []CartLine
	DeliveryMethod DeliveryMethod
	CreatedSource  CreatedSource
	Carrier        string
	TrackingCode   string
}

// productRequest accumulates every cart line targeting one product; the
// availability check runs once per product against the summed quantity,
// the per-line tuples are kept for variant-level application.
type productRequest struct {
	productID string
	total     int
	lines     []CartLine
}

func validateLines(lines []CartLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: empty cart", ErrInvalidInput)
	}
	for _, l := range lines {
		if l.ProductID == "" {
			return fmt.Errorf("%w: missing product id", ErrInvalidInput)
		}
		if l.Qty <= 0 {
			return fmt.Errorf("%w: qty %d for product %s", ErrInvalidInput, l.Qty, l.ProductID)
		}
	}
	return nil
}

// groupLines groups cart lines by product, sorted by product id so every
// transaction locks product rows in the same order.
func groupLines(lines []CartLine) []productRequest {
	byID := map[string]*productRequest{}
	for _, l := range lines {
		pr, ok := byID[l.ProductID]
		if !ok {
			pr = &productRequest{productID: l.ProductID}
			byID[l.ProductID] = pr
		}
		pr.total += l.Qty
		pr.lines = append(pr.lines, l)
	}
	out := make([]productRequest, 0, len(byID))
	for _, pr := range byID {
		out = append(out, *pr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].productID < out[j].productID })
	return out
}

// choosePool picks the reservation pool for an order: staff-created pickup
// orders reserve against staffReserved, everything else against reserved.
func choosePool(method DeliveryMethod, source CreatedSource) reservationPool {
	if method == DeliveryPickup && source == SourceStaff {
		return poolStaffReserved
	}
	return poolReserved
}

// available computes the availability-check headroom for a pool.
//
// Known invariant gap, kept on purpose: the reserved-pool check subtracts
// only `reserved`, not `staffReserved`, so under interleaved staff-pickup
// and shipping reservations reserved+staffReserved can exceed quantity.
// This mirrors the observed behavior of the system this engine replaces;
// the intended business rule is ambiguous, so it is documented rather
// than corrected.
func available(quantity, reserved, staffReserved int, pool reservationPool) int {
	if pool == poolStaffReserved {
		return quantity - reserved - staffReserved
	}
	return quantity - reserved
}

// matchVariant returns the index of the first variant matching the line's
// size/color selectors. An empty selector matches any value. Lines with
// neither selector target the product level only.
func matchVariant(variants []Variant, size, color string) int {
	if size == "" && color == "" {
		return -1
	}
	for i, v := range variants {
		if size != "" && v.Size != size {
			continue
		}
		if color != "" && v.Color != color {
			continue
		}
		return i
	}
	return -1
}

// CreateOrder turns cart lines into a committed order. The order number is
// minted first in its own transaction; the stock reservation plus the
// order insert then commit atomically across every touched product, or
// not at all.
func (r *Repo) CreateOrder(ctx context.Context, in CreateOrderInput) (*Order, error) {
	if err := validateLines(in.Lines); err != nil {
		return nil, err
	}
	if in.DeliveryMethod != DeliveryPickup && in.DeliveryMethod != DeliveryShipping {
		return nil, fmt.Errorf("%w: delivery method %q", ErrInvalidInput, in.DeliveryMethod)
	}
	if in.CreatedSource != SourceStaff && in.CreatedSource != SourceCustomer {
		return nil, fmt.Errorf("%w: created source %q", ErrInvalidInput, in.CreatedSource)
	}

	number, err := r.NextOrderNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("order number: %w", err)
	}

	reqs := groupLines(in.Lines)
	pool := choosePool(in.DeliveryMethod, in.CreatedSource)

	order := &Order{
		ID:             uuid.NewString(),
		OrderNumber:    number,
		DeliveryMethod: in.DeliveryMethod,
		CreatedSource:  in.CreatedSource,
		ShippingStatus: StatusPending,
		Carrier:        in.Carrier,
		TrackingCode:   in.TrackingCode,
	}

	err = postgres.RunSerializable(ctx, r.DB, func(tx pgx.Tx) error {
		for _, req := range reqs {
			if err := reserveProduct(ctx, tx, req, pool); err != nil {
				return err
			}
		}
		return insertOrder(ctx, tx, order, in.Lines)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func reserveProduct(ctx context.Context, tx pgx.Tx, req productRequest, pool reservationPool) error {
	var quantity, reserved, staffReserved int
	var hasVariants bool
	err := tx.QueryRow(ctx, `
		SELECT quantity, reserved, staff_reserved, has_variants
		FROM products WHERE id=$1 FOR UPDATE`, req.productID).
		Scan(&quantity, &reserved, &staffReserved, &hasVariants)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrProductNotFound, req.productID)
	}
	if err != nil {
		return err
	}

	if available(quantity, reserved, staffReserved, pool) < req.total {
		return &StockInsufficientError{
			ProductID: req.productID,
			Requested: req.total,
			Available: available(quantity, reserved, staffReserved, pool),
		}
	}

	col := "reserved"
	if pool == poolStaffReserved {
		col = "staff_reserved"
	}
	if _, err := tx.Exec(ctx, `
		UPDATE products SET `+col+` = `+col+` + $2, updated_at = now()
		WHERE id=$1`, req.productID, req.total); err != nil {
		return err
	}

	if !hasVariants {
		return nil
	}
	variants, err := lockVariants(ctx, tx, req.productID)
	if err != nil {
		return err
	}
	for _, l := range req.lines {
		i := matchVariant(variants, l.VariantSize, l.VariantColor)
		if i < 0 {
			continue
		}
		if _, err := tx.Exec(ctx, `
			UPDATE product_variants SET `+col+` = `+col+` + $2
			WHERE id=$1`, variants[i].ID, l.Qty); err != nil {
			return err
		}
	}
	return nil
}

func lockVariants(ctx context.Context, tx pgx.Tx, productID string) ([]Variant, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, size, color, quantity, reserved, staff_reserved, cost_cents
		FROM product_variants WHERE product_id=$1 ORDER BY id FOR UPDATE`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Variant
	for rows.Next() {
		v := Variant{ProductID: productID}
		if err := rows.Scan(&v.ID, &v.Size, &v.Color, &v.Quantity, &v.Reserved, &v.StaffReserved, &v.CostCents); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// insertOrder rebuilds o.Items from scratch on every call: the enclosing
// transaction body may replay after a conflict, and a replay must not
// duplicate the in-memory item list.
func insertOrder(ctx context.Context, tx pgx.Tx, o *Order, lines []CartLine) error {
	if _, err := tx.Exec(ctx, `
		INSERT INTO orders(id, order_number, delivery_method, created_source, shipping_status, carrier, tracking_code)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		o.ID, o.OrderNumber, o.DeliveryMethod, o.CreatedSource, o.ShippingStatus, o.Carrier, o.TrackingCode); err != nil {
		return err
	}
	items := make([]OrderItem, 0, len(lines))
	for _, l := range lines {
		subtotal := l.PriceCents * l.Qty
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items(order_id, product_id, variant_size, variant_color, qty, price_cents, subtotal_cents)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			o.ID, l.ProductID, l.VariantSize, l.VariantColor, l.Qty, l.PriceCents, subtotal); err != nil {
			return err
		}
		items = append(items, OrderItem{
			OrderID:       o.ID,
			ProductID:     l.ProductID,
			VariantSize:   l.VariantSize,
			VariantColor:  l.VariantColor,
			Qty:           l.Qty,
			PriceCents:    l.PriceCents,
			SubtotalCents: subtotal,
		})
	}
	o.Items = items
	return nil
}
