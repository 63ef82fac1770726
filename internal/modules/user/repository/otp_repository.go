package repository

import (
	"context"
	"time"

	"anoa.com/eduelevate/internal/entity"
	"gorm.io/gorm"
)

type OTPRepository interface {
	Create(ctx context.Context, otp *entity.OTP) error
	CodeInUse(ctx context.Context, code string, now time.Time) (bool, error)
	FindLatestByEmail(ctx context.Context, email string) (*entity.OTP, error)
	DeleteByEmail(ctx context.Context, email string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type otpRepository struct {
	db *gorm.DB
}

func NewOTPRepository(db *gorm.DB) OTPRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) Create(ctx context.Context, otp *entity.OTP) error {
	return r.db.WithContext(ctx).Create(otp).Error
}

func (r *otpRepository) CodeInUse(ctx context.Context, code string, now time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.OTP{}).
		Where("code = ? AND expires_at > ?", code, now).
		Count(&count).Error
	return count > 0, err
}

func (r *otpRepository) FindLatestByEmail(ctx context.Context, email string) (*entity.OTP, error) {
	var otp entity.OTP
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at DESC").
		First(&otp).Error; err != nil {
		return nil, err
	}
	return &otp, nil
}

func (r *otpRepository) DeleteByEmail(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Where("email = ?", email).Delete(&entity.OTP{}).Error
}

func (r *otpRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&entity.OTP{})
	return res.RowsAffected, res.Error
}
