package inventory

import (
	"testing"

	"pgregory.net/rapid"
)

func intp(v int) *int { return &v }

func TestIsLowStock_ProductLevel(t *testing.T) {
	cases := []struct {
		name string
		p    Product
		want bool
	}{
		{"no initial set", Product{Quantity: 1, Reserved: 0}, false},
		{"below threshold", Product{Quantity: 3, Reserved: 1, InitialQuantity: intp(100)}, true},
		{"exactly at threshold", Product{Quantity: 20, Reserved: 0, InitialQuantity: intp(100)}, false},
		{"just under threshold", Product{Quantity: 20, Reserved: 1, InitialQuantity: intp(100)}, true},
		{"plenty left", Product{Quantity: 80, Reserved: 10, InitialQuantity: intp(100)}, false},
		{"zero initial ignored", Product{Quantity: 0, Reserved: 0, InitialQuantity: intp(0)}, false},
	}
	for _, c := range cases {
		if got := IsLowStock(c.p); got != c.want {
			t.Fatalf("%s: expected %v, got %v", c.name, c.want, got)
		}
	}
}

func TestIsLowStock_VariantRatio(t *testing.T) {
	p := Product{
		Quantity: 100, Reserved: 0, InitialQuantity: intp(100),
		HasVariants: true,
		Variants: []Variant{
			{Quantity: 50, Reserved: 0, InitialQuantity: intp(60)},
			{Quantity: 10, Reserved: 4, InitialQuantity: intp(40)}, // 6/40 = 0.15
		},
	}
	if !IsLowStock(p) {
		t.Fatal("a single low variant must flag the product")
	}
}

func TestIsLowStock_VariantRemainingFloor(t *testing.T) {
	// no initial quantities anywhere; the <=5 remaining rule still applies
	p := Product{
		Quantity:    100,
		HasVariants: true,
		Variants:    []Variant{{Quantity: 8, Reserved: 3}},
	}
	if !IsLowStock(p) {
		t.Fatal("variant with 5 unreserved units must flag the product")
	}

	p.Variants[0].Reserved = 2 // 6 remaining
	if IsLowStock(p) {
		t.Fatal("variant with 6 unreserved units must not flag the product")
	}
}

func TestProperty_LowStockThreshold(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		initial := rapid.IntRange(1, 10_000).Draw(t, "initial")
		quantity := rapid.IntRange(0, 10_000).Draw(t, "quantity")
		reserved := rapid.IntRange(0, quantity).Draw(t, "reserved")

		p := Product{Quantity: quantity, Reserved: reserved, InitialQuantity: intp(initial)}
		want := float64(quantity-reserved)/float64(initial) < 0.20
		if got := IsLowStock(p); got != want {
			t.Fatalf("quantity=%d reserved=%d initial=%d: expected %v, got %v",
				quantity, reserved, initial, want, got)
		}
	})
}
