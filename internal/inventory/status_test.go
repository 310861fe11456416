package inventory

import "testing"

func TestCanTransition_PickupTrack(t *testing.T) {
	if !CanTransition(DeliveryPickup, StatusPending, StatusPickedUp) {
		t.Fatal("pending -> picked_up must be allowed")
	}
	if !CanTransition(DeliveryPickup, StatusPending, StatusCancelled) {
		t.Fatal("pending -> cancelled must be allowed")
	}
	if CanTransition(DeliveryPickup, StatusPickedUp, StatusPending) {
		t.Fatal("picked_up must be terminal")
	}
	if CanTransition(DeliveryPickup, StatusCancelled, StatusPickedUp) {
		t.Fatal("cancelled must be absorbing")
	}
}

func TestCanTransition_ShippingTrack(t *testing.T) {
	if !CanTransition(DeliveryShipping, StatusPending, StatusShippingInProgress) {
		t.Fatal("pending -> shipping_in_progress must be allowed")
	}
	if !CanTransition(DeliveryShipping, StatusPending, StatusDelivered) {
		t.Fatal("pending -> delivered must be allowed")
	}
	if !CanTransition(DeliveryShipping, StatusShippingInProgress, StatusDelivered) {
		t.Fatal("shipping_in_progress -> delivered must be allowed")
	}
	if CanTransition(DeliveryShipping, StatusDelivered, StatusPending) {
		t.Fatal("delivered must be terminal")
	}
}

func TestValidStatus_PerTrack(t *testing.T) {
	if ValidStatus(DeliveryPickup, StatusShippingInProgress) {
		t.Fatal("shipping_in_progress is not a pickup status")
	}
	if ValidStatus(DeliveryShipping, StatusPickedUp) {
		t.Fatal("picked_up is not a shipping status")
	}
	if !ValidStatus(DeliveryPickup, StatusCancelled) || !ValidStatus(DeliveryShipping, StatusCancelled) {
		t.Fatal("cancelled is valid on both tracks")
	}
}

func TestConsumesStock_PickupFiresOnce(t *testing.T) {
	pool, ok := consumesStock(DeliveryPickup, StatusPending, StatusPickedUp)
	if !ok || pool != poolStaffReserved {
		t.Fatalf("expected staff pool consumption, got ok=%v pool=%d", ok, pool)
	}
	// already picked up: a repeated call must be a stock no-op
	if _, ok := consumesStock(DeliveryPickup, StatusPickedUp, StatusPickedUp); ok {
		t.Fatal("second picked_up must not consume stock")
	}
	if _, ok := consumesStock(DeliveryPickup, StatusPending, StatusCancelled); ok {
		t.Fatal("cancellation must not consume stock")
	}
}

func TestConsumesStock_ShippingFiresOnLeavingPending(t *testing.T) {
	for _, next := range []ShippingStatus{StatusShippingInProgress, StatusDelivered} {
		pool, ok := consumesStock(DeliveryShipping, StatusPending, next)
		if !ok || pool != poolReserved {
			t.Fatalf("pending -> %s: expected reserved pool consumption", next)
		}
	}
	// the stock was already consumed at the first progression out of pending
	if _, ok := consumesStock(DeliveryShipping, StatusShippingInProgress, StatusDelivered); ok {
		t.Fatal("shipping_in_progress -> delivered must be a plain field write")
	}
	if _, ok := consumesStock(DeliveryShipping, StatusPending, StatusCancelled); ok {
		t.Fatal("cancellation must not consume stock")
	}
}
