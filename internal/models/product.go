// internal/models/product.go
package models

// Pricing is the visibility-gated price block attached to every catalog
// product. Prices may be hidden from unauthenticated buyers, in which case
// CanSeePrice is false and both amounts are null.
type Pricing struct {
	CanSeePrice bool     `json:"can_see_price"`
	PriceUSD    *float64 `json:"price_usd"`
	PriceUZS    *float64 `json:"price_uzs"`
}

// SpecValue is a single technical specification entry (e.g. "engine_power":
// {Value: "110", Unit: "hp"}).
type SpecValue struct {
	Value string `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

// Product is an immutable snapshot of a catalog entity as returned by the
// upstream catalog API. The stores keep products by full copy: once added to
// a cart or comparison list, later catalog updates do not propagate.
type Product struct {
	ID          int64                `json:"id"`
	Name        string               `json:"name"`
	SKU         string               `json:"sku"`
	Slug        string               `json:"slug"`
	Pricing     Pricing              `json:"pricing"`
	StockStatus StockStatus          `json:"stock_status"`
	ProductType ProductType          `json:"product_type"`
	MainImage   string               `json:"main_image,omitempty"`
	Images      []string             `json:"images,omitempty"`
	Specs       map[string]SpecValue `json:"specs,omitempty"`
}

// VisiblePriceUSD returns the USD price when it is both present and visible
// to the current viewer, else 0. This is the "visible-price-only subtotal"
// policy used by cart total computation.
func (p *Product) VisiblePriceUSD() float64 {
	if !p.Pricing.CanSeePrice || p.Pricing.PriceUSD == nil {
		return 0
	}
	return *p.Pricing.PriceUSD
}
