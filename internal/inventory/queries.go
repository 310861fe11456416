package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Read-side queries for the UI and reporting collaborators. None of these
// mutate state.

func (r *Repo) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	o := &Order{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, order_number, delivery_method, created_source, shipping_status, carrier, tracking_code, created_at, updated_at
		FROM orders WHERE id=$1`, orderID).
		Scan(&o.ID, &o.OrderNumber, &o.DeliveryMethod, &o.CreatedSource, &o.ShippingStatus,
			&o.Carrier, &o.TrackingCode, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, `
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

func (r *Repo) GetProduct(ctx context.Context, productID string) (*Product, error) {
	p := &Product{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, category_id, inventory_mode, has_variants, quantity, reserved, staff_reserved, initial_quantity, cost_cents, created_at, updated_at
		FROM products WHERE id=$1`, productID).
		Scan(&p.ID, &p.Name, &p.CategoryID, &p.InventoryMode, &p.HasVariants,
			&p.Quantity, &p.Reserved, &p.StaffReserved, &p.InitialQuantity, &p.CostCents, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	if err != nil {
		return nil, err
	}
	if p.HasVariants {
		if p.Variants, err = r.listVariants(ctx, productID); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (r *Repo) listVariants(ctx context.Context, productID string) ([]Variant, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, size, color, quantity, reserved, staff_reserved, initial_quantity, cost_cents, sell_cents
		FROM product_variants WHERE product_id=$1 ORDER BY id`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Variant
	for rows.Next() {
		v := Variant{ProductID: productID}
		if err := rows.Scan(&v.ID, &v.Size, &v.Color, &v.Quantity, &v.Reserved,
			&v.StaffReserved, &v.InitialQuantity, &v.CostCents, &v.SellCents); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *Repo) listProductsWithVariants(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, category_id, inventory_mode, has_variants, quantity, reserved, staff_reserved, initial_quantity, cost_cents, created_at, updated_at
		FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.CategoryID, &p.InventoryMode, &p.HasVariants,
			&p.Quantity, &p.Reserved, &p.StaffReserved, &p.InitialQuantity, &p.CostCents, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		if !out[i].HasVariants {
			continue
		}
		variants, err := r.listVariants(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Variants = variants
	}
	return out, nil
}

func scanSerialRows(rows pgx.Rows) ([]SerialUnit, error) {
	defer rows.Close()
	var out []SerialUnit
	for rows.Next() {
		var u SerialUnit
		if err := rows.Scan(&u.ProductID, &u.Code, &u.Status, &u.OrderID, &u.ReservedAt, &u.SoldAt,
			&u.Warranty.Provider, &u.Warranty.Months, &u.Warranty.StartAt, &u.Warranty.EndAt,
			&u.CostCents, &u.VariantKey, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

const serialColumns = `product_id, code, status, COALESCE(order_id,''), reserved_at, sold_at,
	warranty_provider, warranty_months, warranty_start_at, warranty_end_at,
	cost_cents, variant_key, created_at`

func (r *Repo) ListSerials(ctx context.Context, productID string) ([]SerialUnit, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+serialColumns+` FROM serial_units WHERE product_id=$1 ORDER BY code`, productID)
	if err != nil {
		return nil, err
	}
	return scanSerialRows(rows)
}

func (r *Repo) ListSerialsByOrder(ctx context.Context, orderID string) ([]SerialUnit, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+serialColumns+` FROM serial_units WHERE order_id=$1 ORDER BY product_id, code`, orderID)
	if err != nil {
		return nil, err
	}
	return scanSerialRows(rows)
}
