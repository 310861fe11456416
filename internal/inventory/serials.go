package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/herlambang/storefront-inventory/internal/postgres"
)

// SerialDefaults is the template applied to every unit created by a bulk
// import.
type SerialDefaults struct {
	CostCents        int
	WarrantyProvider string
	WarrantyMonths   int
	VariantKey       string
}

type BulkImportResult struct {
	Created           int `json:"created"`
	SkippedExisting   int `json:"skipped_existing"`
	DuplicatesInInput int `json:"duplicates_in_input"`
}

type MarkSoldResult struct {
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// normalizeCodes trims and uppercases serial codes, drops empties, and
// de-duplicates the input while preserving first-seen order.
func normalizeCodes(codes []string) (unique []string, duplicates int) {
	seen := map[string]bool{}
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if seen[c] {
			duplicates++
			continue
		}
		seen[c] = true
		unique = append(unique, c)
	}
	return unique, duplicates
}

// computeWarranty fills the warranty window at sale time. A preset start
// or end date is never overwritten, so replays leave the warranty as is.
func computeWarranty(w Warranty, deliveredAt time.Time) Warranty {
	if w.StartAt == nil {
		start := deliveredAt
		w.StartAt = &start
	}
	if w.EndAt == nil && w.Months > 0 {
		end := w.StartAt.AddDate(0, w.Months, 0)
		w.EndAt = &end
	}
	return w
}

// BulkImport registers serial codes for a serialized product. Codes that
// repeat within the input or that already exist for the product are
// reported as counts, not errors: re-running the same import creates
// nothing new.
func (r *Repo) BulkImport(ctx context.Context, productID string, codes []string, defaults SerialDefaults) (*BulkImportResult, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: missing product id", ErrInvalidInput)
	}
	unique, duplicates := normalizeCodes(codes)
	if len(unique) == 0 {
		return nil, fmt.Errorf("%w: empty serial batch", ErrInvalidInput)
	}

	res := &BulkImportResult{DuplicatesInInput: duplicates}
	err := postgres.RunSerializable(ctx, r.DB, func(tx pgx.Tx) error {
		res.Created, res.SkippedExisting = 0, 0

		mode, err := productMode(ctx, tx, productID)
		if err != nil {
			return err
		}
		if mode != ModeSerialized {
			return fmt.Errorf("%w: product %s is not serialized", ErrInvalidInput, productID)
		}

		existing := map[string]bool{}
		rows, err := tx.Query(ctx, `
			SELECT code FROM serial_units WHERE product_id=$1 AND code = ANY($2)`,
			productID, unique)
		if err != nil {
			return err
		}
		for rows.Next() {
			var code string
			if err := rows.Scan(&code); err != nil {
				rows.Close()
				return err
			}
			existing[code] = true
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, code := range unique {
			if existing[code] {
				res.SkippedExisting++
				continue
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO serial_units(product_id, code, status, warranty_provider, warranty_months, cost_cents, variant_key)
				VALUES ($1,$2,$3,$4,$5,$6,$7)`,
				productID, code, SerialAvailable,
				defaults.WarrantyProvider, defaults.WarrantyMonths,
				defaults.CostCents, defaults.VariantKey); err != nil {
				return err
			}
			res.Created++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ReserveSerials binds serial units to an order, all or nothing: the
// first code that is missing, not available, or already order-bound
// aborts the whole batch.
func (r *Repo) ReserveSerials(ctx context.Context, productID, orderID string, codes []string) error {
	if productID == "" || orderID == "" {
		return fmt.Errorf("%w: missing product or order id", ErrInvalidInput)
	}
	unique, _ := normalizeCodes(codes)
	if len(unique) == 0 {
		return fmt.Errorf("%w: empty serial batch", ErrInvalidInput)
	}

	return postgres.RunSerializable(ctx, r.DB, func(tx pgx.Tx) error {
		for _, code := range unique {
			var status SerialStatus
			var boundOrder string
			err := tx.QueryRow(ctx, `
				SELECT status, COALESCE(order_id,'') FROM serial_units
				WHERE product_id=$1 AND code=$2 FOR UPDATE`, productID, code).
				Scan(&status, &boundOrder)
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: %s", ErrSerialNotFound, code)
			}
			if err != nil {
				return err
			}
			if status != SerialAvailable || boundOrder != "" {
				return &SerialUnavailableError{Code: code, Status: status}
			}
			if _, err := tx.Exec(ctx, `
				UPDATE serial_units SET status=$3, order_id=$4, reserved_at=now()
				WHERE product_id=$1 AND code=$2`,
				productID, code, SerialReserved, orderID); err != nil {
				return err
			}
		}
		return nil
	})
}

// MarkSoldAndActivateWarranty finalizes every unit bound to the order:
// available or reserved units become sold with the warranty window
// activated, units already sold are skipped. A no-op (all zeros) for
// non-serialized products, so fulfillment calls it unconditionally.
func (r *Repo) MarkSoldAndActivateWarranty(ctx context.Context, productID, orderID string, deliveredAt time.Time) (*MarkSoldResult, error) {
	res := &MarkSoldResult{}
	err := postgres.RunSerializable(ctx, r.DB, func(tx pgx.Tx) error {
		updated, skipped, err := markSoldTx(ctx, tx, productID, orderID, deliveredAt)
		if err != nil {
			return err
		}
		res.Updated, res.Skipped = updated, skipped
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func markSoldTx(ctx context.Context, tx pgx.Tx, productID, orderID string, deliveredAt time.Time) (updated, skipped int, err error) {
	mode, err := productMode(ctx, tx, productID)
	if err != nil {
		return 0, 0, err
	}
	if mode != ModeSerialized {
		return 0, 0, nil
	}

	rows, err := tx.Query(ctx, `
		SELECT code, status, warranty_provider, warranty_months, warranty_start_at, warranty_end_at
		FROM serial_units WHERE product_id=$1 AND order_id=$2
		ORDER BY code FOR UPDATE`, productID, orderID)
	if err != nil {
		return 0, 0, err
	}
	type unit struct {
		code     string
		status   SerialStatus
		warranty Warranty
	}
	var units []unit
	for rows.Next() {
		var u unit
		if err := rows.Scan(&u.code, &u.status, &u.warranty.Provider, &u.warranty.Months,
			&u.warranty.StartAt, &u.warranty.EndAt); err != nil {
			rows.Close()
			return 0, 0, err
		}
		units = append(units, u)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, 0, err
	}

	for _, u := range units {
		if u.status == SerialSold {
			skipped++
			continue
		}
		w := computeWarranty(u.warranty, deliveredAt)
		if _, err := tx.Exec(ctx, `
			UPDATE serial_units SET status=$3, sold_at=$4, warranty_start_at=$5, warranty_end_at=$6
			WHERE product_id=$1 AND code=$2`,
			productID, u.code, SerialSold, deliveredAt, w.StartAt, w.EndAt); err != nil {
			return 0, 0, err
		}
		updated++
	}
	return updated, skipped, nil
}

func productMode(ctx context.Context, tx pgx.Tx, productID string) (InventoryMode, error) {
	var mode InventoryMode
	err := tx.QueryRow(ctx, `SELECT inventory_mode FROM products WHERE id=$1`, productID).Scan(&mode)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	return mode, err
}
