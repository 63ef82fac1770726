package repository

import (
	"context"

	"anoa.com/eduelevate/internal/entity"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, order *entity.PaymentOrder) error
	FindByOrderID(ctx context.Context, orderID string) (*entity.PaymentOrder, error)
	MarkPaid(ctx context.Context, orderID, paymentID string) error
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, order *entity.PaymentOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *paymentRepository) FindByOrderID(ctx context.Context, orderID string) (*entity.PaymentOrder, error) {
	var order entity.PaymentOrder
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *paymentRepository) MarkPaid(ctx context.Context, orderID, paymentID string) error {
	return r.db.WithContext(ctx).
		Model(&entity.PaymentOrder{}).
		Where("order_id = ?", orderID).
		Updates(map[string]any{"status": entity.PaymentPaid, "payment_id": paymentID}).Error
}
