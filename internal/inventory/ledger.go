package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// The ledger is append-only: the engine inserts movement rows and never
// updates or deletes them.

func appendLedgerTx(ctx context.Context, tx pgx.Tx, e LedgerEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.EntryDate.IsZero() {
		e.EntryDate = time.Now().UTC()
	}
	var orderID any
	if e.OrderID != "" {
		orderID = e.OrderID
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO inventory_ledger(id, product_id, entry_date, entry_type, qty, cost_cents, source, order_id, variant_size, variant_color, actor)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		e.ID, e.ProductID, e.EntryDate, e.Type, e.Qty, e.CostCents, e.Source, orderID,
		e.VariantSize, e.VariantColor, e.Actor)
	return err
}

// RecordStockIn bumps on-hand quantity and appends the matching "in"
// entry, one transaction per restock.
func (r *Repo) RecordStockIn(ctx context.Context, productID string, qty, costCents int, actor string) error {
	if productID == "" || qty <= 0 {
		return fmt.Errorf("%w: restock product=%q qty=%d", ErrInvalidInput, productID, qty)
	}
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ct, err := tx.Exec(ctx, `
		UPDATE products SET quantity = quantity + $2, cost_cents = $3, updated_at = now()
		WHERE id=$1`, productID, qty, costCents)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	if err := appendLedgerTx(ctx, tx, LedgerEntry{
		ProductID: productID,
		Type:      EntryIn,
		Qty:       qty,
		CostCents: costCents,
		Source:    LedgerSourceRestock,
		Actor:     actor,
	}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ListLedger returns a product's movement history, newest first.
func (r *Repo) ListLedger(ctx context.Context, productID string, limit int) ([]LedgerEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.DB.Query(ctx, `
		SELECT id, product_id, entry_date, entry_type, qty, cost_cents, source, COALESCE(order_id,''), variant_size, variant_color, actor
		FROM inventory_ledger WHERE product_id=$1
		ORDER BY entry_date DESC, id DESC LIMIT $2`, productID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LedgerEntry
	for rows.Next() {
		var e LedgerEntry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.EntryDate, &e.Type, &e.Qty, &e.CostCents,
			&e.Source, &e.OrderID, &e.VariantSize, &e.VariantColor, &e.Actor); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
