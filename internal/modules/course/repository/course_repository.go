package repository

import (
	"context"

	"anoa.com/eduelevate/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseRepository interface {
	Create(ctx context.Context, course *entity.Course) error
	Update(ctx context.Context, course *entity.Course) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Course, error)
	FindWithContent(ctx context.Context, id uuid.UUID) (*entity.Course, error)
	FindPublished(ctx context.Context) ([]entity.Course, error)
	FindByInstructor(ctx context.Context, instructorID uuid.UUID) ([]entity.Course, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

// WithContent preloads sections in position order and their lectures in creation order.
func WithContent(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Sections.SubSections", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		})
}

func (r *courseRepository) Create(ctx context.Context, course *entity.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) Update(ctx context.Context, course *entity.Course) error {
	return r.db.WithContext(ctx).
		Model(course).
		Select("name", "description", "what_you_will_learn", "category_id", "price",
			"thumbnail", "tags", "instructions", "status").
		Updates(course).Error
}

func (r *courseRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Course, error) {
	var course entity.Course
	if err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) FindWithContent(ctx context.Context, id uuid.UUID) (*entity.Course, error) {
	var course entity.Course
	if err := r.db.WithContext(ctx).
		Scopes(WithContent).
		Preload("Category").
		Preload("Instructor.Profile").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Reviews.User").
		First(&course, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) FindPublished(ctx context.Context) ([]entity.Course, error) {
	var courses []entity.Course
	err := r.db.WithContext(ctx).
		Preload("Instructor").
		Where("status = ?", entity.CoursePublished).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepository) FindByInstructor(ctx context.Context, instructorID uuid.UUID) ([]entity.Course, error) {
	var courses []entity.Course
	err := r.db.WithContext(ctx).
		Scopes(WithContent).
		Preload("Category").
		Where("instructor_id = ?", instructorID).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}

// Delete removes the course along with everything that references it.
func (r *courseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		progressIDs := tx.Model(&entity.CourseProgress{}).Select("id").Where("course_id = ?", id)
		if err := tx.Where("progress_id IN (?)", progressIDs).Delete(&entity.CompletedLecture{}).Error; err != nil {
			return err
		}

		for _, model := range []any{&entity.CourseProgress{}, &entity.Enrollment{}, &entity.RatingAndReview{}} {
			if err := tx.Where("course_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}

		sectionIDs := tx.Model(&entity.Section{}).Select("id").Where("course_id = ?", id)
		if err := tx.Where("section_id IN (?)", sectionIDs).Delete(&entity.SubSection{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&entity.Section{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&entity.Course{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
