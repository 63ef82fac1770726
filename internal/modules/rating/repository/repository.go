package repository

import (
	"context"

	"anoa.com/eduelevate/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RatingRepository interface {
	Create(ctx context.Context, review *entity.RatingAndReview) error
	Exists(ctx context.Context, courseID, userID uuid.UUID) (bool, error)
	Average(ctx context.Context, courseID uuid.UUID) (float64, error)
	FindAll(ctx context.Context) ([]entity.RatingAndReview, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Create(ctx context.Context, review *entity.RatingAndReview) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *ratingRepository) Exists(ctx context.Context, courseID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.RatingAndReview{}).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *ratingRepository) Average(ctx context.Context, courseID uuid.UUID) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).
		Model(&entity.RatingAndReview{}).
		Select("COALESCE(AVG(rating), 0)").
		Where("course_id = ?", courseID).
		Scan(&avg).Error
	return avg, err
}

func (r *ratingRepository) FindAll(ctx context.Context) ([]entity.RatingAndReview, error) {
	var reviews []entity.RatingAndReview
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Course", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		}).
		Order("rating DESC").
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}
