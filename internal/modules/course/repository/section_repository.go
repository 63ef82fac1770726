package repository

import (
	"context"

	"anoa.com/eduelevate/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SectionRepository interface {
	Create(ctx context.Context, section *entity.Section) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Section, error)
	FindWithSubSections(ctx context.Context, id uuid.UUID) (*entity.Section, error)
	Rename(ctx context.Context, id uuid.UUID, name string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type sectionRepository struct {
	db *gorm.DB
}

func NewSectionRepository(db *gorm.DB) SectionRepository {
	return &sectionRepository{db: db}
}

// Create appends the section after the last one of its course.
func (r *sectionRepository) Create(ctx context.Context, section *entity.Section) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last int
		if err := tx.Model(&entity.Section{}).
			Where("course_id = ?", section.CourseID).
			Select("COALESCE(MAX(position), -1)").
			Scan(&last).Error; err != nil {
			return err
		}

		section.Position = last + 1
		return tx.Create(section).Error
	})
}

func (r *sectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Section, error) {
	var section entity.Section
	if err := r.db.WithContext(ctx).First(&section, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *sectionRepository) FindWithSubSections(ctx context.Context, id uuid.UUID) (*entity.Section, error) {
	var section entity.Section
	if err := r.db.WithContext(ctx).
		Preload("SubSections", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&section, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *sectionRepository) Rename(ctx context.Context, id uuid.UUID, name string) error {
	return r.db.WithContext(ctx).Model(&entity.Section{}).Where("id = ?", id).Update("name", name).Error
}

// Delete removes the section, its lectures and any completions recorded against them.
func (r *sectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lectureIDs := tx.Model(&entity.SubSection{}).Select("id").Where("section_id = ?", id)
		if err := tx.Where("sub_section_id IN (?)", lectureIDs).Delete(&entity.CompletedLecture{}).Error; err != nil {
			return err
		}
		if err := tx.Where("section_id = ?", id).Delete(&entity.SubSection{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Section{}, "id = ?", id).Error
	})
}

type SubSectionRepository interface {
	Create(ctx context.Context, sub *entity.SubSection) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.SubSection, error)
	Update(ctx context.Context, sub *entity.SubSection) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type subSectionRepository struct {
	db *gorm.DB
}

func NewSubSectionRepository(db *gorm.DB) SubSectionRepository {
	return &subSectionRepository{db: db}
}

func (r *subSectionRepository) Create(ctx context.Context, sub *entity.SubSection) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *subSectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.SubSection, error) {
	var sub entity.SubSection
	if err := r.db.WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subSectionRepository) Update(ctx context.Context, sub *entity.SubSection) error {
	return r.db.WithContext(ctx).
		Model(sub).
		Select("title", "description", "video_url", "time_duration").
		Updates(sub).Error
}

func (r *subSectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sub_section_id = ?", id).Delete(&entity.CompletedLecture{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.SubSection{}, "id = ?", id).Error
	})
}
