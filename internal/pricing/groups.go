package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/smallwonder/storefront-api/internal/commerce"
)

// ProductGroup is the set of line items sharing a root product, e.g. two
// sizes of the same sleeper. Derived fresh from the cart on every
// computation, never stored.
type ProductGroup struct {
	RootProductID string
	ProductName   string
	Items         []commerce.LineItem
	TotalQuantity int
}

// GroupByProduct groups line items by RootProductID, preserving first-seen
// order and taking the product name from the first item of each group.
func GroupByProduct(items []commerce.LineItem) []ProductGroup {
	groups := make([]ProductGroup, 0, len(items))
	byRoot := make(map[string]int, len(items))

	for _, item := range items {
		idx, ok := byRoot[item.RootProductID]
		if !ok {
			byRoot[item.RootProductID] = len(groups)
			groups = append(groups, ProductGroup{
				RootProductID: item.RootProductID,
				ProductName:   item.ProductName,
			})
			idx = len(groups) - 1
		}
		groups[idx].Items = append(groups[idx].Items, item)
		if item.Quantity > 0 {
			groups[idx].TotalQuantity += item.Quantity
		}
	}
	return groups
}

// GroupSavings totals the promotional savings shown on a group's discount
// banner. AmountOff is already a rule-level aggregate, so each distinct rule
// touching the group counts exactly once regardless of how many of the
// group's lines it covers.
func GroupSavings(group ProductGroup, index DiscountIndex) decimal.Decimal {
	total := decimal.Zero
	seen := make(map[*commerce.AppliedDiscount]struct{})

	for _, item := range group.Items {
		discount, ok := index[item.ID]
		if !ok || discount == nil {
			continue
		}
		if _, counted := seen[discount]; counted {
			continue
		}
		seen[discount] = struct{}{}
		total = total.Add(discount.AmountOff)
	}
	return total
}
