package repository

import (
	"context"

	"anoa.com/eduelevate/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseSales struct {
	CourseID uuid.UUID
	Total    int64
}

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	FindBySlug(ctx context.Context, slug string) (*entity.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	FindAll(ctx context.Context) ([]*entity.Category, error)
	FindPublishedCourses(ctx context.Context, categoryID uuid.UUID) ([]entity.Course, error)
	FindOthersWithCourses(ctx context.Context, excludeID uuid.UUID) ([]*entity.Category, error)
	TopSelling(ctx context.Context, limit int) ([]CourseSales, error)
	FindCoursesByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Course, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) FindBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	var category entity.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var category entity.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindAll(ctx context.Context) ([]*entity.Category, error) {
	var categories []*entity.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindPublishedCourses(ctx context.Context, categoryID uuid.UUID) ([]entity.Course, error) {
	var courses []entity.Course
	err := r.db.WithContext(ctx).
		Preload("Instructor").
		Preload("Reviews").
		Where("category_id = ? AND status = ?", categoryID, entity.CoursePublished).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}

func (r *categoryRepository) FindOthersWithCourses(ctx context.Context, excludeID uuid.UUID) ([]*entity.Category, error) {
	published := r.db.Model(&entity.Course{}).
		Select("category_id").
		Where("status = ?", entity.CoursePublished)

	var categories []*entity.Category
	err := r.db.WithContext(ctx).
		Where("id <> ? AND id IN (?)", excludeID, published).
		Find(&categories).Error
	return categories, err
}

// TopSelling ranks published courses by enrollment count.
func (r *categoryRepository) TopSelling(ctx context.Context, limit int) ([]CourseSales, error) {
	var rows []CourseSales
	err := r.db.WithContext(ctx).
		Table("courses").
		Select("courses.id AS course_id, COUNT(enrollments.user_id) AS total").
		Joins("LEFT JOIN enrollments ON enrollments.course_id = courses.id").
		Where("courses.status = ?", entity.CoursePublished).
		Group("courses.id").
		Order("total DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *categoryRepository) FindCoursesByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Course, error) {
	var courses []entity.Course
	if len(ids) == 0 {
		return courses, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Instructor").
		Preload("Category").
		Where("id IN ?", ids).
		Find(&courses).Error
	return courses, err
}
