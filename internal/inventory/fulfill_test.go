package inventory

import "testing"

func TestConsumePool_FloorsAtZero(t *testing.T) {
	cases := []struct {
		pool, qty, want int
	}{
		{5, 3, 2},
		{3, 3, 0},
		{2, 3, 0},
		{0, 1, 0},
	}
	for _, c := range cases {
		if got := consumePool(c.pool, c.qty); got != c.want {
			t.Fatalf("consumePool(%d, %d): expected %d, got %d", c.pool, c.qty, c.want, got)
		}
	}
}

func TestLedgerSourceFor(t *testing.T) {
	cases := []struct {
		method DeliveryMethod
		source CreatedSource
		want   string
	}{
		{DeliveryPickup, SourceStaff, LedgerSourceStaffPickup},
		{DeliveryPickup, SourceCustomer, LedgerSourceCustomerPickup},
		{DeliveryShipping, SourceStaff, LedgerSourceShipping},
		{DeliveryShipping, SourceCustomer, LedgerSourceShipping},
	}
	for _, c := range cases {
		if got := ledgerSourceFor(c.method, c.source); got != c.want {
			t.Fatalf("%s/%s: expected %q, got %q", c.method, c.source, c.want, got)
		}
	}
}

// A line that matched a variant records the variant's cost; a sibling line
// of the same product without a match falls back to the product cost rather
// than inheriting the earlier line's variant cost.
func TestLedgerUnitCost_PerLineResolution(t *testing.T) {
	variants := []Variant{
		{ID: 1, Size: "M", CostCents: 700},
		{ID: 2, Size: "L", CostCents: 850},
	}
	productCost := 500

	if got := ledgerUnitCost(productCost, variants, 1); got != 850 {
		t.Fatalf("matched line: expected variant cost 850, got %d", got)
	}
	if got := ledgerUnitCost(productCost, variants, -1); got != 500 {
		t.Fatalf("unmatched sibling line: expected product cost 500, got %d", got)
	}
}
