package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"anoa.com/eduelevate/internal/entity"
	"anoa.com/eduelevate/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CompletionOutcome string

const (
	CompletionCreated CompletionOutcome = "Created"
	CompletionUpdated CompletionOutcome = "Updated"
	AlreadyComplete   CompletionOutcome = "AlreadyComplete"
)

type EnrollmentRepository interface {
	Enroll(ctx context.Context, courseIDs []uuid.UUID, userID uuid.UUID) ([]entity.Course, error)
	IsEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error)
	EnrolledCourseIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	CountStudents(ctx context.Context, courseIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	FindProgress(ctx context.Context, courseID, userID uuid.UUID) (*entity.CourseProgress, error)
	FindSubSectionCourse(ctx context.Context, subSectionID uuid.UUID) (uuid.UUID, error)
	RecordCompletion(ctx context.Context, courseID, subSectionID, userID uuid.UUID) (CompletionOutcome, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

// Enroll registers the user in every course or in none of them.
func (r *enrollmentRepository) Enroll(ctx context.Context, courseIDs []uuid.UUID, userID uuid.UUID) ([]entity.Course, error) {
	courses := make([]entity.Course, 0, len(courseIDs))

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, courseID := range courseIDs {
			var course entity.Course
			if err := tx.Select("id", "name", "price").First(&course, "id = ?", courseID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("course %s not found: %w", courseID, apperror.ErrNotFound)
				}
				return err
			}

			if err := tx.Create(&entity.Enrollment{CourseID: courseID, UserID: userID}).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("already enrolled in %s: %w", course.Name, apperror.ErrConflict)
				}
				return err
			}

			if err := tx.Create(&entity.CourseProgress{CourseID: courseID, UserID: userID}).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("progress for %s already exists: %w", course.Name, apperror.ErrConflict)
				}
				return err
			}

			courses = append(courses, course)
		}

		res := tx.Model(&entity.User{}).Where("id = ?", userID).Update("updated_at", time.Now())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *enrollmentRepository) IsEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Enrollment{}).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *enrollmentRepository) EnrolledCourseIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&entity.Enrollment{}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Pluck("course_id", &ids).Error
	return ids, err
}

func (r *enrollmentRepository) CountStudents(ctx context.Context, courseIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(courseIDs))
	if len(courseIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		CourseID uuid.UUID
		Total    int64
	}
	if err := r.db.WithContext(ctx).
		Model(&entity.Enrollment{}).
		Select("course_id, COUNT(*) AS total").
		Where("course_id IN ?", courseIDs).
		Group("course_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.CourseID] = row.Total
	}
	return counts, nil
}

func (r *enrollmentRepository) FindProgress(ctx context.Context, courseID, userID uuid.UUID) (*entity.CourseProgress, error) {
	var progress entity.CourseProgress
	if err := r.db.WithContext(ctx).
		Preload("CompletedLectures").
		Where("course_id = ? AND user_id = ?", courseID, userID).
		First(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *enrollmentRepository) FindSubSectionCourse(ctx context.Context, subSectionID uuid.UUID) (uuid.UUID, error) {
	var row struct {
		CourseID uuid.UUID
	}
	err := r.db.WithContext(ctx).
		Table("sub_sections").
		Select("sections.course_id AS course_id").
		Joins("JOIN sections ON sections.id = sub_sections.section_id").
		Where("sub_sections.id = ?", subSectionID).
		Take(&row).Error
	return row.CourseID, err
}

// RecordCompletion creates the progress row on first use and marks the lecture complete at most once.
func (r *enrollmentRepository) RecordCompletion(ctx context.Context, courseID, subSectionID, userID uuid.UUID) (CompletionOutcome, error) {
	var outcome CompletionOutcome

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		progress := entity.CourseProgress{CourseID: courseID, UserID: userID}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&progress)
		if res.Error != nil {
			return res.Error
		}

		created := res.RowsAffected == 1
		if !created {
			if err := tx.Where("course_id = ? AND user_id = ?", courseID, userID).First(&progress).Error; err != nil {
				return err
			}
		}

		res = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entity.CompletedLecture{
			ProgressID:   progress.ID,
			SubSectionID: subSectionID,
		})
		if res.Error != nil {
			return res.Error
		}

		switch {
		case res.RowsAffected == 0:
			outcome = AlreadyComplete
		case created:
			outcome = CompletionCreated
		default:
			outcome = CompletionUpdated
		}

		return tx.Model(&entity.CourseProgress{}).Where("id = ?", progress.ID).Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return "", err
	}
	return outcome, nil
}
