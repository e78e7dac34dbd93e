package service

import (
	"context"
	"fmt"

	"shop-service/internal/models"
	"shop-service/internal/pricing"
	"shop-service/internal/store"
	"shop-service/internal/util"

	"go.uber.org/zap"
)

// CatalogService resolves the catalog a given customer actually sees:
// the products available to them, their override prices and the
// special offers on those products. A child customer (non-empty
// parent_id) resolves through its parent; availability and prices are
// stored once, against the parent.
type CatalogService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store *store.Store) *CatalogService {
	return &CatalogService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// EffectiveCatalog returns the customer's parent-resolved catalog as
// pricing inputs, together with the customer record itself.
func (cs *CatalogService) EffectiveCatalog(ctx context.Context, customerID int64) (*models.Customer, []pricing.CatalogProduct, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.EffectiveCatalog")
	defer span.End()

	customer, err := cs.store.GetCustomerByID(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}

	billingID := customer.BillingID()

	products, err := cs.store.GetCustomerProducts(ctx, billingID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load customer products: %w", err)
	}

	prices, err := cs.store.GetCustomerPrices(ctx, billingID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load customer prices: %w", err)
	}
	priceByProduct := make(map[int64]float64, len(prices))
	for _, p := range prices {
		priceByProduct[p.ProductID] = p.Price
	}

	productIDs := make([]int64, len(products))
	for i, p := range products {
		productIDs[i] = p.ID
	}
	offers, err := cs.store.GetSpecialOffers(ctx, productIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load special offers: %w", err)
	}
	offerByProduct := make(map[int64]*pricing.Offer, len(offers))
	for i := range offers {
		offerByProduct[offers[i].ProductID] = &pricing.Offer{
			Type:          offers[i].OfferType,
			MatchQuantity: offers[i].MatchQuantity,
			OfferPrice:    offers[i].OfferPrice,
		}
	}

	catalog := make([]pricing.CatalogProduct, 0, len(products))
	for _, p := range products {
		cp := pricing.CatalogProduct{
			ID:        p.ID,
			Name:      p.Name,
			Unit:      p.Unit,
			Price:     p.Price,
			GiftRatio: p.GiftRatio,
			Offer:     offerByProduct[p.ID],
		}
		if override, ok := priceByProduct[p.ID]; ok {
			cp.CustomPrice = override
			cp.HasCustomPrice = true
		}
		catalog = append(catalog, cp)
	}

	cs.logger.Debug("Resolved effective catalog",
		zap.Int64("customer_id", customerID),
		zap.Int64("billing_id", billingID),
		zap.Int("products", len(catalog)))

	return customer, catalog, nil
}
