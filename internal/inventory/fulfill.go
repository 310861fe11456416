package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/herlambang/storefront-inventory/internal/postgres"
)

type FulfillmentUpdate struct {
	Status       ShippingStatus // empty leaves the status untouched
	Carrier      string
	TrackingCode string
	Actor        string
}

// FulfillmentResult reports what a status update actually did.
type FulfillmentResult struct {
	Order         *Order
	StockConsumed bool
	SerialsSold   int
}

// UpdateFulfillment advances an order through its delivery track. The two
// stock-consuming transitions (pickup arriving at picked_up, shipping
// leaving pending) drain the order's reservation pool, decrement on-hand
// quantity, append one ledger "out" row per line, and cascade into serial
// sale-marking, all inside one transaction with the status write itself.
// Anything else, carrier fields included, is a plain field write.
func (r *Repo) UpdateFulfillment(ctx context.Context, orderID string, upd FulfillmentUpdate) (*FulfillmentResult, error) {
	res := &FulfillmentResult{}
	err := postgres.RunSerializable(ctx, r.DB, func(tx pgx.Tx) error {
		// reset per attempt: the whole body replays on a conflict
		*res = FulfillmentResult{}

		order, err := lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		res.Order = order

		next := order.ShippingStatus
		if upd.Status != "" && upd.Status != order.ShippingStatus {
			if !ValidStatus(order.DeliveryMethod, upd.Status) ||
				!CanTransition(order.DeliveryMethod, order.ShippingStatus, upd.Status) {
				return fmt.Errorf("%w: %s -> %s on %s order", ErrInvalidInput,
					order.ShippingStatus, upd.Status, order.DeliveryMethod)
			}
			next = upd.Status
		}

		if pool, ok := consumesStock(order.DeliveryMethod, order.ShippingStatus, next); ok {
			sold, err := consumeOrderStock(ctx, tx, order, pool, upd.Actor)
			if err != nil {
				return err
			}
			res.StockConsumed = true
			res.SerialsSold = sold
		}

		if upd.Carrier != "" {
			order.Carrier = upd.Carrier
		}
		if upd.TrackingCode != "" {
			order.TrackingCode = upd.TrackingCode
		}
		order.ShippingStatus = next
		_, err = tx.Exec(ctx, `
			UPDATE orders SET shipping_status=$2, carrier=$3, tracking_code=$4, updated_at=now()
			WHERE id=$1`, order.ID, order.ShippingStatus, order.Carrier, order.TrackingCode)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func lockOrder(ctx context.Context, tx pgx.Tx, orderID string) (*Order, error) {
	o := &Order{}
	err := tx.QueryRow(ctx, `
		SELECT id, order_number, delivery_method, created_source, shipping_status, carrier, tracking_code, created_at
		FROM orders WHERE id=$1 FOR UPDATE`, orderID).
		Scan(&o.ID, &o.OrderNumber, &o.DeliveryMethod, &o.CreatedSource, &o.ShippingStatus,
			&o.Carrier, &o.TrackingCode, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT id, product_id, variant_size, variant_color, qty, price_cents, subtotal_cents
		FROM order_items WHERE order_id=$1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		it := OrderItem{OrderID: o.ID}
		if err := rows.Scan(&it.ID, &it.ProductID, &it.VariantSize, &it.VariantColor,
			&it.Qty, &it.PriceCents, &it.SubtotalCents); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
	}
	return o, rows.Err()
}

// ledgerSourceFor tags consumption entries: pickup consumption by who
// created the order, shipping consumption with a single tag.
func ledgerSourceFor(method DeliveryMethod, source CreatedSource) string {
	if method == DeliveryPickup {
		if source == SourceStaff {
			return LedgerSourceStaffPickup
		}
		return LedgerSourceCustomerPickup
	}
	return LedgerSourceShipping
}

// consumePool floors the reservation pool at zero; on-hand quantity drops
// by the full consumed amount.
func consumePool(pool, qty int) int {
	if pool < qty {
		return 0
	}
	return pool - qty
}

// ledgerUnitCost picks the cost recorded on an outgoing ledger entry: the
// matched variant's cost when the line resolved to one, the product cost
// otherwise. Resolved per line, a sibling line without a variant match must
// not inherit an earlier line's variant cost.
func ledgerUnitCost(productCost int, variants []Variant, matched int) int {
	if matched >= 0 {
		return variants[matched].CostCents
	}
	return productCost
}

func consumeOrderStock(ctx context.Context, tx pgx.Tx, order *Order, pool reservationPool, actor string) (serialsSold int, err error) {
	source := ledgerSourceFor(order.DeliveryMethod, order.CreatedSource)

	productIDs := distinctProductIDs(order.Items)
	for _, pid := range productIDs {
		var quantity, reserved, staffReserved, costCents int
		var hasVariants bool
		err := tx.QueryRow(ctx, `
			SELECT quantity, reserved, staff_reserved, has_variants, cost_cents
			FROM products WHERE id=$1 FOR UPDATE`, pid).
			Scan(&quantity, &reserved, &staffReserved, &hasVariants, &costCents)
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: %s", ErrProductNotFound, pid)
		}
		if err != nil {
			return 0, err
		}

		var variants []Variant
		if hasVariants {
			if variants, err = lockVariants(ctx, tx, pid); err != nil {
				return 0, err
			}
		}

		for _, it := range order.Items {
			if it.ProductID != pid {
				continue
			}
			quantity -= it.Qty
			if pool == poolStaffReserved {
				staffReserved = consumePool(staffReserved, it.Qty)
			} else {
				reserved = consumePool(reserved, it.Qty)
			}

			i := matchVariant(variants, it.VariantSize, it.VariantColor)
			if i >= 0 {
				v := &variants[i]
				if pool == poolStaffReserved {
					v.StaffReserved = consumePool(v.StaffReserved, it.Qty)
				} else {
					v.Reserved = consumePool(v.Reserved, it.Qty)
				}
				v.Quantity -= it.Qty
				if _, err := tx.Exec(ctx, `
					UPDATE product_variants SET quantity=$2, reserved=$3, staff_reserved=$4
					WHERE id=$1`, v.ID, v.Quantity, v.Reserved, v.StaffReserved); err != nil {
					return 0, err
				}
			}

			if err := appendLedgerTx(ctx, tx, LedgerEntry{
				ProductID:    pid,
				Type:         EntryOut,
				Qty:          it.Qty,
				CostCents:    ledgerUnitCost(costCents, variants, i),
				Source:       source,
				OrderID:      order.ID,
				VariantSize:  it.VariantSize,
				VariantColor: it.VariantColor,
				Actor:        actor,
			}); err != nil {
				return 0, err
			}
		}

		if _, err := tx.Exec(ctx, `
			UPDATE products SET quantity=$2, reserved=$3, staff_reserved=$4, updated_at=now()
			WHERE id=$1`, pid, quantity, reserved, staffReserved); err != nil {
			return 0, err
		}

		sold, _, err := markSoldTx(ctx, tx, pid, order.ID, time.Now().UTC())
		if err != nil {
			return 0, err
		}
		serialsSold += sold
	}
	return serialsSold, nil
}

func distinctProductIDs(items []OrderItem) []string {
	seen := map[string]bool{}
	var out []string
	for _, it := range items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			out = append(out, it.ProductID)
		}
	}
	sort.Strings(out)
	return out
}
