package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/smallwonder/storefront-api/internal/commerce"
	"github.com/smallwonder/storefront-api/pkg/config"
)

// FeeRule maps a destination country to a shipping fee.
type FeeRule func(countryCode string) decimal.Decimal

// FlatFeeRule charges the configured flat fee for one country and zero for
// everything else, including an absent country.
func FlatFeeRule(cfg config.ShippingConfig) FeeRule {
	country := strings.ToUpper(strings.TrimSpace(cfg.FeeCountry))
	fee := cfg.Fee()
	return func(countryCode string) decimal.Decimal {
		if country == "" {
			return decimal.Zero
		}
		if strings.ToUpper(strings.TrimSpace(countryCode)) == country {
			return fee
		}
		return decimal.Zero
	}
}

// Summary carries the order-summary figures shown to the shopper.
// ItemDiscountTotal and PromotionalDiscountTotal are display breakdowns of
// how UnitPrice already fell below UnitFullPrice; GrandTotal never subtracts
// them again.
type Summary struct {
	OriginalSubtotal         decimal.Decimal `json:"originalSubtotal"`
	ItemDiscountTotal        decimal.Decimal `json:"itemDiscountTotal"`
	PromotionalDiscountTotal decimal.Decimal `json:"promotionalDiscountTotal"`
	ShippingFee              decimal.Decimal `json:"shippingFee"`
	GrandTotal               decimal.Decimal `json:"grandTotal"`
	Empty                    bool            `json:"empty"`
}

func zeroSummary() Summary {
	return Summary{
		OriginalSubtotal:         decimal.Zero,
		ItemDiscountTotal:        decimal.Zero,
		PromotionalDiscountTotal: decimal.Zero,
		ShippingFee:              decimal.Zero,
		GrandTotal:               decimal.Zero,
		Empty:                    true,
	}
}

// Summarize reconciles the cart's three price points per line with the
// cart-level promotional aggregates into one consistent breakdown.
//
// Per line, the itemized discount counts only the slice no promotional rule
// already claims: a covered line contributes the standing sale portion
// (UnitFullPrice - UnitPriceBeforeDiscounts) * Qty, an uncovered line the
// full (UnitFullPrice - UnitPrice) * Qty. Counting the full spread on a
// covered line would double-count the promotional slice already present in
// PromotionalDiscountTotal.
func Summarize(cart *commerce.Cart, index DiscountIndex, fee FeeRule) Summary {
	if cart == nil || len(cart.LineItems) == 0 {
		return zeroSummary()
	}

	originalSubtotal := decimal.Zero
	itemDiscountTotal := decimal.Zero
	grandTotal := decimal.Zero

	for _, item := range cart.LineItems {
		if item.Quantity <= 0 {
			continue
		}
		qty := decimal.NewFromInt(int64(item.Quantity))

		originalSubtotal = originalSubtotal.Add(item.UnitFullPrice.Mul(qty))
		grandTotal = grandTotal.Add(item.UnitPrice.Mul(qty))

		if _, covered := index[item.ID]; covered {
			before := decimal.Zero
			if item.UnitPriceBeforeDiscounts != nil {
				before = *item.UnitPriceBeforeDiscounts
			}
			itemDiscountTotal = itemDiscountTotal.Add(item.UnitFullPrice.Sub(before).Mul(qty))
		} else {
			itemDiscountTotal = itemDiscountTotal.Add(item.UnitFullPrice.Sub(item.UnitPrice).Mul(qty))
		}
	}

	promotionalDiscountTotal := decimal.Zero
	for _, discount := range cart.AppliedDiscounts {
		promotionalDiscountTotal = promotionalDiscountTotal.Add(discount.AmountOff)
	}

	shippingFee := decimal.Zero
	if fee != nil {
		shippingFee = fee(cart.DestinationCountry)
	}

	return Summary{
		OriginalSubtotal:         originalSubtotal,
		ItemDiscountTotal:        itemDiscountTotal,
		PromotionalDiscountTotal: promotionalDiscountTotal,
		ShippingFee:              shippingFee,
		GrandTotal:               grandTotal.Add(shippingFee),
	}
}
