package commerce

import (
	"github.com/shopspring/decimal"
)

// LineItem is one catalog item instance in a cart, as returned by the
// commerce backend. Read-only here.
type LineItem struct {
	ID            string `json:"id"`
	RootProductID string `json:"rootProductId"`
	ProductName   string `json:"productName"`
	Quantity      int    `json:"quantity"`

	// UnitPrice is the current effective price with every discount baked in.
	// UnitPriceBeforeDiscounts is set only when a cart-level promotional rule
	// covers the line; it reflects the standing sale price before that rule.
	// UnitPrice <= UnitPriceBeforeDiscounts <= UnitFullPrice when all present.
	UnitPrice                decimal.Decimal  `json:"unitPrice"`
	UnitFullPrice            decimal.Decimal  `json:"unitFullPrice"`
	UnitPriceBeforeDiscounts *decimal.Decimal `json:"unitPriceBeforePromotionalDiscounts,omitempty"`

	AvailabilityStatus string `json:"availabilityStatus,omitempty"`
}

// AppliedDiscount is a cart-level promotional rule result. AmountOff is the
// backend-computed aggregate across every affected line item.
type AppliedDiscount struct {
	RuleName            string          `json:"ruleName"`
	AmountOff           decimal.Decimal `json:"amountOff"`
	AffectedLineItemIDs []string        `json:"affectedLineItemIds"`
}

// Cart is fetched fresh from the backend on every read or mutation and never
// persisted here.
type Cart struct {
	ID                 string            `json:"id"`
	LineItems          []LineItem        `json:"lineItems"`
	AppliedDiscounts   []AppliedDiscount `json:"appliedDiscounts"`
	DestinationCountry string            `json:"destinationCountry,omitempty"`
	Currency           string            `json:"currency,omitempty"`
}

type Media struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
}

type Product struct {
	ID             string           `json:"id"`
	Slug           string           `json:"slug"`
	Name           string           `json:"name"`
	Description    string           `json:"description,omitempty"`
	ProductType    string           `json:"productType,omitempty"`
	Price          decimal.Decimal  `json:"price"`
	FullPrice      *decimal.Decimal `json:"fullPrice,omitempty"`
	CollectionIDs  []string         `json:"collectionIds,omitempty"`
	Media          []Media          `json:"media,omitempty"`
	InStock        bool             `json:"inStock"`
	RibbonText     string           `json:"ribbonText,omitempty"`
	VariantOptions []VariantOption  `json:"variantOptions,omitempty"`
}

type VariantOption struct {
	Name    string   `json:"name"`
	Choices []string `json:"choices"`
}

type Collection struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Visible     bool   `json:"visible"`
}

// ProductQuery mirrors the catalog query surface: filters, one sort field,
// skip/limit paging.
type ProductQuery struct {
	CollectionID string
	NamePrefix   string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	ProductType  string
	SortField    string
	SortAsc      bool
	Skip         int
	Limit        int
}

type ProductPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}

type AddItemRequest struct {
	CatalogItemID string            `json:"catalogItemId"`
	Variant       map[string]string `json:"variant,omitempty"`
	Quantity      int               `json:"quantity"`
}

type CheckoutSession struct {
	RedirectURL string `json:"redirectUrl"`
}

type PriceSummary struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

type OrderAddress struct {
	FullName   string `json:"fullName,omitempty"`
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

type Order struct {
	ID              string       `json:"id"`
	Number          string       `json:"number"`
	BuyerContactID  string       `json:"buyerContactId"`
	Status          string       `json:"status"`
	PaymentStatus   string       `json:"paymentStatus"`
	PriceSummary    PriceSummary `json:"priceSummary"`
	ShippingAddress OrderAddress `json:"shippingAddress"`
	BillingAddress  OrderAddress `json:"billingAddress"`
	CreatedAt       string       `json:"createdAt"`
}

type Member struct {
	ID        string `json:"id"`
	ContactID string `json:"contactId"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type UpdateMemberRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}
