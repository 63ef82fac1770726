package repository

import (
	"context"

	"anoa.com/eduelevate/internal/entity"
	courseRepo "anoa.com/eduelevate/internal/modules/course/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	FindUser(ctx context.Context, id uuid.UUID) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	UpdateImage(ctx context.Context, id uuid.UUID, url string) error
	CountOwnedCourses(ctx context.Context, instructorID uuid.UUID) (int64, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) (reviewed []uuid.UUID, err error)
	EnrolledCourses(ctx context.Context, userID uuid.UUID) ([]entity.Course, error)
	InstructorCourses(ctx context.Context, instructorID uuid.UUID) ([]entity.Course, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) FindUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Preload("Profile").First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update saves the name fields and upserts the profile row.
func (r *profileRepository) Update(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(user).Select("first_name", "last_name").Updates(user).Error; err != nil {
			return err
		}
		if user.Profile == nil {
			return nil
		}
		user.Profile.UserID = user.ID
		return tx.Save(user.Profile).Error
	})
}

func (r *profileRepository) UpdateImage(ctx context.Context, id uuid.UUID, url string) error {
	return r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Update("image", url).Error
}

func (r *profileRepository) CountOwnedCourses(ctx context.Context, instructorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Course{}).Where("instructor_id = ?", instructorID).Count(&count).Error
	return count, err
}

// DeleteAccount removes the user and everything recorded on their behalf. It
// returns the courses the user had reviewed.
func (r *profileRepository) DeleteAccount(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	var reviewed []uuid.UUID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.RatingAndReview{}).Where("user_id = ?", id).Pluck("course_id", &reviewed).Error; err != nil {
			return err
		}

		progressIDs := tx.Model(&entity.CourseProgress{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("progress_id IN (?)", progressIDs).Delete(&entity.CompletedLecture{}).Error; err != nil {
			return err
		}

		for _, model := range []any{
			&entity.CourseProgress{},
			&entity.Enrollment{},
			&entity.RatingAndReview{},
			&entity.PaymentOrder{},
			&entity.Profile{},
		} {
			if err := tx.Where("user_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}

		res := tx.Delete(&entity.User{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reviewed, nil
}

func (r *profileRepository) EnrolledCourses(ctx context.Context, userID uuid.UUID) ([]entity.Course, error) {
	var courses []entity.Course
	err := r.db.WithContext(ctx).
		Scopes(courseRepo.WithContent).
		Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.user_id = ?", userID).
		Order("enrollments.created_at ASC").
		Find(&courses).Error
	return courses, err
}

func (r *profileRepository) InstructorCourses(ctx context.Context, instructorID uuid.UUID) ([]entity.Course, error) {
	var courses []entity.Course
	err := r.db.WithContext(ctx).
		Where("instructor_id = ?", instructorID).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}
