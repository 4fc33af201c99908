// Package order holds the order placement and total computation pipeline:
// line items are persisted individually, unit prices are snapshotted from the
// catalog at creation time, and the parent order stores the computed total.
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/banyumasfresh/shop/internal/models"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
)

type Service struct {
	DB *gorm.DB
}

// LineInput is one {product, quantity} pair of a submitted order.
type LineInput struct {
	ProductID uint `json:"product"`
	Quantity  uint `json:"quantity"`
}

type CreateOrderInput struct {
	Items            []LineInput
	ShippingAddress1 string
	ShippingAddress2 string
	City             string
	Zip              string
	Country          string
	Phone            string
	Status           string
	UserID           uint
}

// CreateItem persists a standalone line item (the cart flow). The product
// reference must resolve and the quantity must be positive.
func (s *Service) CreateItem(ctx context.Context, productID, quantity uint) (*models.OrderItem, error) {
	if quantity == 0 {
		return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
	}

	var p models.Product
	if err := s.DB.WithContext(ctx).First(&p, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d does not exist", ErrValidation, productID)
		}
		return nil, err
	}

	item := models.OrderItem{ProductID: productID, Quantity: quantity}
	if err := s.DB.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ResolvePrice dereferences an item's product and returns its current unit
// price.
func (s *Service) ResolvePrice(ctx context.Context, itemID uint) (decimal.Decimal, error) {
	var item models.OrderItem
	if err := s.DB.WithContext(ctx).First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, fmt.Errorf("%w: order item %d", ErrNotFound, itemID)
		}
		return decimal.Zero, err
	}

	var p models.Product
	if err := s.DB.WithContext(ctx).First(&p, item.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, fmt.Errorf("%w: product %d", ErrNotFound, item.ProductID)
		}
		return decimal.Zero, err
	}
	return p.Price, nil
}

// DeleteItem removes a line item and reports whether a record existed.
func (s *Service) DeleteItem(ctx context.Context, itemID uint) (bool, error) {
	res := s.DB.WithContext(ctx).Delete(&models.OrderItem{}, itemID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Service) UpdateItemQuantity(ctx context.Context, itemID, quantity uint) (*models.OrderItem, error) {
	if quantity == 0 {
		return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
	}

	var item models.OrderItem
	if err := s.DB.WithContext(ctx).First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order item %d", ErrNotFound, itemID)
		}
		return nil, err
	}

	item.Quantity = quantity
	if err := s.DB.WithContext(ctx).Save(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Service) ListItems(ctx context.Context) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := s.DB.WithContext(ctx).Preload("Product").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CreateOrder runs the aggregation pipeline. Input is validated before any
// write. Unit prices are resolved concurrently and joined before summation;
// the resulting total is a snapshot, never recomputed later. Items are
// written before the parent order, all inside one transaction, so a failed
// parent write cannot leave orphaned items behind.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if err := validateOrderInput(in); err != nil {
		return nil, err
	}

	prices := make([]decimal.Decimal, len(in.Items))
	g, gctx := errgroup.WithContext(ctx)
	for i, line := range in.Items {
		g.Go(func() error {
			var p models.Product
			if err := s.DB.WithContext(gctx).Select("id", "price").First(&p, line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: product %d does not exist", ErrValidation, line.ProductID)
				}
				return err
			}
			prices[i] = p.Price
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := decimal.Zero
	for i, line := range in.Items {
		total = total.Add(prices[i].Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	status := in.Status
	if status == "" {
		status = "Pending"
	}

	order := &models.Order{
		ShippingAddress1: in.ShippingAddress1,
		ShippingAddress2: in.ShippingAddress2,
		City:             in.City,
		Zip:              in.Zip,
		Country:          in.Country,
		Phone:            in.Phone,
		Status:           status,
		TotalPrice:       total,
		UserID:           in.UserID,
		DateOrdered:      time.Now().UTC(),
	}

	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := make([]models.OrderItem, 0, len(in.Items))
		itemIDs := make([]uint, 0, len(in.Items))
		for i, line := range in.Items {
			item := models.OrderItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Position:  uint(i),
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			items = append(items, item)
			itemIDs = append(itemIDs, item.ID)
		}

		if err := tx.Create(order).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.OrderItem{}).
			Where("id IN ?", itemIDs).
			Update("order_id", order.ID).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		order.Items = items
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return order, nil
}

func validateOrderInput(in CreateOrderInput) error {
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: orderItems required", ErrValidation)
	}
	if in.UserID == 0 {
		return fmt.Errorf("%w: user required", ErrValidation)
	}

	required := []struct {
		field, value string
	}{
		{"shippingAddress1", in.ShippingAddress1},
		{"city", in.City},
		{"zip", in.Zip},
		{"country", in.Country},
		{"phone", in.Phone},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%w: %s required", ErrValidation, r.field)
		}
	}

	for _, line := range in.Items {
		if line.ProductID == 0 {
			return fmt.Errorf("%w: product required", ErrValidation)
		}
		if line.Quantity == 0 {
			return fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
	}
	return nil
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (s *Service) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.WithContext(ctx).
		Preload("User").
		Preload("Items", byPosition).
		Order("date_ordered DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Service) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	err := s.DB.WithContext(ctx).
		Preload("User").
		Preload("Items", byPosition).
		Preload("Items.Product").
		Preload("Items.Product.Category").
		First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &o, nil
}

// UpdateStatus replaces the status label verbatim. The field is free text;
// no value set or transition graph is enforced.
func (s *Service) UpdateStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	var o models.Order
	if err := s.DB.WithContext(ctx).First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}

	o.Status = status
	if err := s.DB.WithContext(ctx).Save(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// DeleteOrder removes the order and its line items in one transaction, so a
// failed item delete surfaces instead of leaving dangling rows.
func (s *Service) DeleteOrder(ctx context.Context, id uint) (bool, error) {
	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o models.Order
		if err := tx.First(&o, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %d", ErrNotFound, id)
			}
			return err
		}

		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&o).Error
	})
	if txErr != nil {
		return false, txErr
	}
	return true, nil
}

func (s *Service) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Order{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// TotalRevenue sums totalPrice across all orders. An empty order set yields
// zero, not an error.
func (s *Service) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := s.DB.WithContext(ctx).
		Raw("SELECT COALESCE(SUM(total_price), 0) AS total FROM orders").
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

func (s *Service) ListUserOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Items", byPosition).
		Preload("Items.Product").
		Preload("Items.Product.Category").
		Order("date_ordered DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
