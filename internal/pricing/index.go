package pricing

import (
	"github.com/smallwonder/storefront-api/internal/commerce"
)

// DiscountIndex maps a line item id to the promotional rule covering it.
// Each id is expected to be covered by at most one rule.
type DiscountIndex map[string]*commerce.AppliedDiscount

// BuildDiscountIndex walks every applied discount's affected set. Duplicate
// coverage should be unreachable; when it happens anyway the last rule wins.
// Malformed input is tolerated, nothing is rejected here.
func BuildDiscountIndex(discounts []commerce.AppliedDiscount) DiscountIndex {
	index := make(DiscountIndex)
	for i := range discounts {
		discount := &discounts[i]
		for _, id := range discount.AffectedLineItemIDs {
			if id == "" {
				continue
			}
			index[id] = discount
		}
	}
	return index
}
