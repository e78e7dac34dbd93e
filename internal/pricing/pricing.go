// Package pricing computes cart prices for a customer's effective
// catalog. It is pure: catalog resolution (including parent/child
// customer inheritance) happens in the service layer, so everything
// here is testable without a database.
package pricing

import "math"

// Offer is a quantity-triggered pricing rule attached to a catalog
// product. An offer applies once the requested quantity reaches
// MatchQuantity.
type Offer struct {
	// Type is "price" (the unit price becomes OfferPrice) or "gift"
	// (bonus units are granted, the unit price is unchanged).
	Type          string
	MatchQuantity int
	OfferPrice    float64
}

const (
	OfferTypePrice = "price"
	OfferTypeGift  = "gift"
)

// CatalogProduct is one product as a specific customer sees it:
// the base price, an optional per-customer override, and an optional
// special offer.
type CatalogProduct struct {
	ID        int64
	Name      string
	Unit      string
	Price     float64
	GiftRatio int

	// CustomPrice overrides Price when HasCustomPrice is set.
	CustomPrice    float64
	HasCustomPrice bool

	Offer *Offer
}

// Line is a priced cart entry.
type Line struct {
	ProductID    int64
	Quantity     int
	UnitPrice    float64
	Subtotal     int64
	GiftQuantity int
}

// UnitPrice resolves the effective unit price for a quantity:
// an applicable price offer wins, then the customer override, then
// the base catalog price.
func (p *CatalogProduct) UnitPrice(quantity int) float64 {
	if p.Offer != nil && p.Offer.Type == OfferTypePrice && p.Offer.MatchQuantity > 0 && quantity >= p.Offer.MatchQuantity {
		return p.Offer.OfferPrice
	}
	if p.HasCustomPrice {
		return p.CustomPrice
	}
	return p.Price
}

// giftQuantity returns the bonus units granted by a gift offer:
// one GiftRatio batch per full MatchQuantity multiple.
func (p *CatalogProduct) giftQuantity(quantity int) int {
	if p.Offer == nil || p.Offer.Type != OfferTypeGift || p.Offer.MatchQuantity <= 0 {
		return 0
	}
	return quantity / p.Offer.MatchQuantity * p.GiftRatio
}

// PriceCart prices every cart entry against the catalog and returns
// the priced lines and the order total. Entries with zero or negative
// quantity contribute nothing. Entries referencing a product id that
// is not in the catalog are skipped silently: the cart may hold a
// stale reference to a removed product, which is not an error.
//
// Each subtotal is rounded half-up once per line; the total is the
// plain sum of the line subtotals and is never rounded again.
func PriceCart(cart map[int64]int, products []CatalogProduct) ([]Line, int64) {
	byID := make(map[int64]*CatalogProduct, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	lines := make([]Line, 0, len(cart))
	var total int64
	for productID, quantity := range cart {
		if quantity <= 0 {
			continue
		}
		product, ok := byID[productID]
		if !ok {
			continue
		}

		unitPrice := product.UnitPrice(quantity)
		subtotal := RoundHalfUp(unitPrice * float64(quantity))

		lines = append(lines, Line{
			ProductID:    productID,
			Quantity:     quantity,
			UnitPrice:    unitPrice,
			Subtotal:     subtotal,
			GiftQuantity: product.giftQuantity(quantity),
		})
		total += subtotal
	}

	return lines, total
}

// CartTotal is PriceCart without the line breakdown.
func CartTotal(cart map[int64]int, products []CatalogProduct) int64 {
	_, total := PriceCart(cart, products)
	return total
}

// RoundHalfUp rounds a currency amount to the nearest integer unit,
// with ties going up.
func RoundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
