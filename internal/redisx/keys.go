package redisx

import "time"

const (
	// Cache of an order's shipping status: order_status:{order_id}
	KeyOrderStatus = "order_status:%s"

	// Dedup of consumed events: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Low-stock alert flag per product: lowstock:{product_id}
	KeyLowStock = "lowstock:%s"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
	TTLLowStock    = 12 * time.Hour
)
