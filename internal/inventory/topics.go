package inventory

const (
	TopicOrderCreated   = "inventory.order.created"
	TopicOrderFulfilled = "inventory.order.fulfilled"
	TopicStockLow       = "inventory.stock.low"
)

// Partition key = order_id (or product_id for stock events) so all events
// of one entity keep their order.
func PartitionKey(id string) []byte { return []byte(id) }
