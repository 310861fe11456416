package inventory

import "context"

const (
	lowStockRatio       = 0.20
	variantLowRemaining = 5
)

// IsLowStock evaluates the read-only low-stock rule against a product
// snapshot: below 20% of initial at product level, or any variant below
// 20% of its initial or with at most 5 unreserved units left.
func IsLowStock(p Product) bool {
	if ratioBelow(p.Quantity, p.Reserved, p.InitialQuantity) {
		return true
	}
	for _, v := range p.Variants {
		if ratioBelow(v.Quantity, v.Reserved, v.InitialQuantity) {
			return true
		}
		if v.Quantity-v.Reserved <= variantLowRemaining {
			return true
		}
	}
	return false
}

func ratioBelow(quantity, reserved int, initial *int) bool {
	if initial == nil || *initial <= 0 {
		return false
	}
	return float64(quantity-reserved)/float64(*initial) < lowStockRatio
}

// ListLowStock scans the catalog and returns every product the rule
// currently flags.
func (r *Repo) ListLowStock(ctx context.Context) ([]Product, error) {
	products, err := r.listProductsWithVariants(ctx)
	if err != nil {
		return nil, err
	}
	var out []Product
	for _, p := range products {
		if IsLowStock(p) {
			out = append(out, p)
		}
	}
	return out, nil
}
