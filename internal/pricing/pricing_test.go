package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func catalog() []CatalogProduct {
	return []CatalogProduct{
		{ID: 1, Name: "Rice", Unit: "kg", Price: 1000},
		{ID: 2, Name: "Miso", Unit: "pack", Price: 500},
	}
}

func TestPriceCartEmpty(t *testing.T) {
	total := CartTotal(map[int64]int{}, catalog())
	assert.Equal(t, int64(0), total)
}

func TestPriceCartBasePrices(t *testing.T) {
	cart := map[int64]int{1: 2, 2: 1}

	lines, total := PriceCart(cart, catalog())

	assert.Equal(t, int64(2*1000+1*500), total)
	assert.Len(t, lines, 2)
}

func TestPriceCartCustomerOverride(t *testing.T) {
	products := []CatalogProduct{
		{ID: 1, Price: 1000, CustomPrice: 900, HasCustomPrice: true},
	}

	_, total := PriceCart(map[int64]int{1: 3}, products)

	assert.Equal(t, int64(2700), total)
}

func TestPriceCartOfferBeatsOverride(t *testing.T) {
	products := []CatalogProduct{
		{
			ID:             1,
			Price:          1000,
			CustomPrice:    900,
			HasCustomPrice: true,
			Offer:          &Offer{Type: OfferTypePrice, MatchQuantity: 10, OfferPrice: 720},
		},
	}

	_, total := PriceCart(map[int64]int{1: 10}, products)
	assert.Equal(t, int64(7200), total)

	// Below the threshold the override still applies.
	_, total = PriceCart(map[int64]int{1: 9}, products)
	assert.Equal(t, int64(9*900), total)
}

func TestPriceCartGiftOffer(t *testing.T) {
	products := []CatalogProduct{
		{
			ID:        1,
			Price:     300,
			GiftRatio: 2,
			Offer:     &Offer{Type: OfferTypeGift, MatchQuantity: 10},
		},
	}

	lines, total := PriceCart(map[int64]int{1: 25}, products)

	// Gift offers never change the unit price.
	assert.Equal(t, int64(25*300), total)
	assert.Len(t, lines, 1)
	assert.Equal(t, 4, lines[0].GiftQuantity) // floor(25/10) * 2

	lines, _ = PriceCart(map[int64]int{1: 9}, products)
	assert.Equal(t, 0, lines[0].GiftQuantity)
}

func TestPriceCartUnknownProduct(t *testing.T) {
	cart := map[int64]int{1: 2, 999: 5}

	lines, total := PriceCart(cart, catalog())

	assert.Equal(t, int64(2000), total)
	assert.Len(t, lines, 1)
}

func TestPriceCartZeroQuantity(t *testing.T) {
	cart := map[int64]int{1: 0, 2: 3}

	lines, total := PriceCart(cart, catalog())

	assert.Equal(t, int64(1500), total)
	assert.Len(t, lines, 1)
}

func TestPriceCartOrderIndependent(t *testing.T) {
	products := catalog()

	cartA := map[int64]int{1: 4, 2: 7}
	cartB := map[int64]int{2: 7, 1: 4}

	assert.Equal(t, CartTotal(cartA, products), CartTotal(cartB, products))
}

func TestPriceCartRoundsPerLine(t *testing.T) {
	products := []CatalogProduct{
		{ID: 1, Price: 33.4},
		{ID: 2, Price: 33.4},
	}

	lines, total := PriceCart(map[int64]int{1: 1, 2: 1}, products)

	// Each line rounds half-up on its own: 33.4 -> 33, summed to 66,
	// not round(66.8) = 67.
	assert.Equal(t, int64(66), total)
	for _, line := range lines {
		assert.Equal(t, int64(33), line.Subtotal)
	}
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, int64(3), RoundHalfUp(2.5))
	assert.Equal(t, int64(2), RoundHalfUp(2.49))
	assert.Equal(t, int64(2), RoundHalfUp(2.0))
	assert.Equal(t, int64(-2), RoundHalfUp(-2.5))
}
