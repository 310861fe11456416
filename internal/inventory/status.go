package inventory

type ShippingStatus string

const (
	StatusPending            ShippingStatus = "pending"
	StatusPickedUp           ShippingStatus = "picked_up"
	StatusShippingInProgress ShippingStatus = "shipping_in_progress"
	StatusDelivered          ShippingStatus = "delivered"
	StatusCancelled          ShippingStatus = "cancelled"
)

var pickupNext = map[ShippingStatus]map[ShippingStatus]bool{
	StatusPending:   {StatusPickedUp: true, StatusCancelled: true},
	StatusPickedUp:  {},
	StatusCancelled: {},
}

var shippingNext = map[ShippingStatus]map[ShippingStatus]bool{
	StatusPending:            {StatusShippingInProgress: true, StatusDelivered: true, StatusCancelled: true},
	StatusShippingInProgress: {StatusDelivered: true, StatusCancelled: true},
	StatusDelivered:          {},
	StatusCancelled:          {},
}

func CanTransition(method DeliveryMethod, from, to ShippingStatus) bool {
	if method == DeliveryPickup {
		return pickupNext[from][to]
	}
	return shippingNext[from][to]
}

func ValidStatus(method DeliveryMethod, s ShippingStatus) bool {
	switch s {
	case StatusPending, StatusCancelled:
		return true
	case StatusPickedUp:
		return method == DeliveryPickup
	case StatusShippingInProgress, StatusDelivered:
		return method == DeliveryShipping
	}
	return false
}

// consumesStock decides whether moving from cur to next releases reserved
// stock into consumption, and which pool it drains. Each guard holds at
// most once per order: the pickup pool drains on the first arrival at
// picked_up, the shipping pool on the first progression out of pending.
// Every other write (carrier fields, shipping_in_progress -> delivered,
// cancellation) is a plain field update.
func consumesStock(method DeliveryMethod, cur, next ShippingStatus) (pool reservationPool, ok bool) {
	switch method {
	case DeliveryPickup:
		if next == StatusPickedUp && cur != StatusPickedUp {
			return poolStaffReserved, true
		}
	case DeliveryShipping:
		if cur == StatusPending && (next == StatusShippingInProgress || next == StatusDelivered) {
			return poolReserved, true
		}
	}
	return 0, false
}
