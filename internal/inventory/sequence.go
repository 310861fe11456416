package inventory

import (
	"context"
	"fmt"
	"time"
)

const orderCounterName = "order_number"

// NextOrderNumber mints the next order number in its own transaction, on
// purpose decoupled from the reservation transaction: a retry on one never
// forces a retry of the other. Numbers are unique and strictly increasing
// by issuance; under concurrency they do not necessarily reflect
// submission order.
func (r *Repo) NextOrderNumber(ctx context.Context) (string, error) {
	var current int64
	err := r.DB.QueryRow(ctx, `
		INSERT INTO counters(name, current) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET current = counters.current + 1
		RETURNING current`, orderCounterName).Scan(&current)
	if err != nil {
		return "", err
	}
	return FormatOrderNumber(time.Now().UTC(), current), nil
}

func FormatOrderNumber(issuedAt time.Time, n int64) string {
	return fmt.Sprintf("ORD-%s-%04d", issuedAt.Format("20060102"), n)
}
