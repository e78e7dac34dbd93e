package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"shop-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// GetCustomerByID retrieves a customer by ID
func (s *Store) GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.GetContext(ctx, &customer, "SELECT * FROM customers WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("customer not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetCustomers retrieves all customers
func (s *Store) GetCustomers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	err := s.db.SelectContext(ctx, &customers, "SELECT * FROM customers ORDER BY id")
	return customers, err
}

// CreateCustomer creates a new customer
func (s *Store) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (name, line_user_id, parent_id, payment_type, shipping_fee)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	return s.db.GetContext(ctx, customer, query,
		customer.Name, customer.LineUserID, customer.ParentID, customer.PaymentType, customer.ShippingFee)
}

// UpdateCustomer updates customer fields
func (s *Store) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE customers
		SET name = $1, line_user_id = $2, parent_id = $3, payment_type = $4, shipping_fee = $5, updated_at = NOW()
		WHERE id = $6`,
		customer.Name, customer.LineUserID, customer.ParentID, customer.PaymentType, customer.ShippingFee, customer.ID)
	return err
}

// DeleteCustomer deletes a customer
func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM customers WHERE id = $1", id)
	return err
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProducts retrieves all products
func (s *Store) GetProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products, "SELECT * FROM products ORDER BY id")
	return products, err
}

// CreateProduct creates a new product
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (name, unit, price, gift_ratio)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, product, query,
		product.Name, product.Unit, product.Price, product.GiftRatio)
}

// UpdateProduct updates product fields
func (s *Store) UpdateProduct(ctx context.Context, product *models.Product) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE products SET name = $1, unit = $2, price = $3, gift_ratio = $4 WHERE id = $5",
		product.Name, product.Unit, product.Price, product.GiftRatio, product.ID)
	return err
}

// DeleteProduct deletes a product
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	return err
}

// GetCustomerProducts retrieves the products available to a customer.
// Availability is stored against the billing customer; callers pass
// the parent-resolved id.
func (s *Store) GetCustomerProducts(ctx context.Context, customerID int64) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products, `
		SELECT p.*
		FROM products p
		JOIN customer_products cp ON cp.product_id = p.id
		WHERE cp.customer_id = $1
		ORDER BY p.id`, customerID)
	return products, err
}

// SetCustomerProduct makes a product available to a customer
func (s *Store) SetCustomerProduct(ctx context.Context, customerID, productID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO customer_products (customer_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (customer_id, product_id) DO NOTHING`,
		customerID, productID)
	return err
}

// RemoveCustomerProduct removes a product from a customer's catalog
func (s *Store) RemoveCustomerProduct(ctx context.Context, customerID, productID int64) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM customer_products WHERE customer_id = $1 AND product_id = $2",
		customerID, productID)
	return err
}

// GetCustomerPrices retrieves a customer's price overrides
func (s *Store) GetCustomerPrices(ctx context.Context, customerID int64) ([]models.CustomerPrice, error) {
	var prices []models.CustomerPrice
	err := s.db.SelectContext(ctx, &prices,
		"SELECT * FROM customer_prices WHERE customer_id = $1", customerID)
	return prices, err
}

// UpsertCustomerPrice sets or replaces a customer's override price
func (s *Store) UpsertCustomerPrice(ctx context.Context, price *models.CustomerPrice) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO customer_prices (customer_id, product_id, price)
		VALUES ($1, $2, $3)
		ON CONFLICT (customer_id, product_id) DO UPDATE SET price = EXCLUDED.price`,
		price.CustomerID, price.ProductID, price.Price)
	return err
}

// DeleteCustomerPrice removes a customer's override price
func (s *Store) DeleteCustomerPrice(ctx context.Context, customerID, productID int64) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM customer_prices WHERE customer_id = $1 AND product_id = $2",
		customerID, productID)
	return err
}

// GetSpecialOffers retrieves special offers for a set of products
func (s *Store) GetSpecialOffers(ctx context.Context, productIDs []int64) ([]models.SpecialOffer, error) {
	if len(productIDs) == 0 {
		return []models.SpecialOffer{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM special_offers WHERE product_id IN (?)", productIDs)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var offers []models.SpecialOffer
	err = s.db.SelectContext(ctx, &offers, query, args...)
	return offers, err
}

// CreateSpecialOffer creates a quantity-triggered offer for a product
func (s *Store) CreateSpecialOffer(ctx context.Context, offer *models.SpecialOffer) error {
	query := `
		INSERT INTO special_offers (product_id, offer_type, match_quantity, offer_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return s.db.GetContext(ctx, &offer.ID, query,
		offer.ProductID, offer.OfferType, offer.MatchQuantity, offer.OfferPrice)
}

// DeleteSpecialOffer removes an offer
func (s *Store) DeleteSpecialOffer(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM special_offers WHERE id = $1", id)
	return err
}
