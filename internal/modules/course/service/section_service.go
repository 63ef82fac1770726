package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"anoa.com/eduelevate/internal/entity"
	"anoa.com/eduelevate/internal/modules/course/dto"
	"anoa.com/eduelevate/internal/modules/course/repository"
	"anoa.com/eduelevate/pkg/apperror"
	commonDto "anoa.com/eduelevate/pkg/dto"
	"anoa.com/eduelevate/pkg/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SectionService interface {
	CreateSection(ctx context.Context, instructorID uuid.UUID, req dto.CreateSectionRequest) (*entity.Course, error)
	UpdateSection(ctx context.Context, instructorID uuid.UUID, req dto.UpdateSectionRequest) (*entity.Course, error)
	DeleteSection(ctx context.Context, instructorID uuid.UUID, req dto.DeleteSectionRequest) (*entity.Course, error)
	CreateSubSection(ctx context.Context, instructorID uuid.UUID, req dto.CreateSubSectionRequest, video *commonDto.UploadFile) (*entity.Section, error)
	UpdateSubSection(ctx context.Context, instructorID uuid.UUID, req dto.UpdateSubSectionRequest, video *commonDto.UploadFile) (*entity.Section, error)
	DeleteSubSection(ctx context.Context, instructorID uuid.UUID, req dto.DeleteSubSectionRequest) (*entity.Section, error)
}

type sectionService struct {
	courses     repository.CourseRepository
	sections    repository.SectionRepository
	subSections repository.SubSectionRepository
	media       storage.MediaStorage
	folder      string
	logger      *zap.Logger
}

func NewSectionService(
	courses repository.CourseRepository,
	sections repository.SectionRepository,
	subSections repository.SubSectionRepository,
	media storage.MediaStorage,
	folder string,
	logger *zap.Logger,
) SectionService {
	return &sectionService{
		courses:     courses,
		sections:    sections,
		subSections: subSections,
		media:       media,
		folder:      folder,
		logger:      logger,
	}
}

func (s *sectionService) CreateSection(ctx context.Context, instructorID uuid.UUID, req dto.CreateSectionRequest) (*entity.Course, error) {
	courseID, err := parseID("course", req.CourseID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, instructorID, courseID); err != nil {
		return nil, err
	}

	section := &entity.Section{CourseID: courseID, Name: strings.TrimSpace(req.SectionName)}
	if err := s.sections.Create(ctx, section); err != nil {
		return nil, err
	}

	return s.courses.FindWithContent(ctx, courseID)
}

func (s *sectionService) UpdateSection(ctx context.Context, instructorID uuid.UUID, req dto.UpdateSectionRequest) (*entity.Course, error) {
	section, err := s.courseSection(ctx, instructorID, req.CourseID, req.SectionID)
	if err != nil {
		return nil, err
	}

	if err := s.sections.Rename(ctx, section.ID, strings.TrimSpace(req.SectionName)); err != nil {
		return nil, err
	}

	return s.courses.FindWithContent(ctx, section.CourseID)
}

func (s *sectionService) DeleteSection(ctx context.Context, instructorID uuid.UUID, req dto.DeleteSectionRequest) (*entity.Course, error) {
	section, err := s.courseSection(ctx, instructorID, req.CourseID, req.SectionID)
	if err != nil {
		return nil, err
	}

	full, err := s.sections.FindWithSubSections(ctx, section.ID)
	if err != nil {
		return nil, err
	}

	if err := s.sections.Delete(ctx, section.ID); err != nil {
		return nil, err
	}

	for _, sub := range full.SubSections {
		s.deleteAsset(ctx, sub.VideoURL)
	}

	return s.courses.FindWithContent(ctx, section.CourseID)
}

func (s *sectionService) CreateSubSection(ctx context.Context, instructorID uuid.UUID, req dto.CreateSubSectionRequest, video *commonDto.UploadFile) (*entity.Section, error) {
	if video == nil || video.Reader == nil {
		return nil, fmt.Errorf("video file is required: %w", apperror.ErrInvalidInput)
	}

	section, err := s.ownedSection(ctx, instructorID, req.SectionID)
	if err != nil {
		return nil, err
	}

	// The caller duration is validated before the upload.
	if _, err := resolveDuration(0, req.TimeDuration); err != nil {
		return nil, err
	}

	asset, err := s.media.UploadVideo(ctx, video.Reader, s.folder, video.FileName)
	if err != nil {
		return nil, fmt.Errorf("upload video: %w", apperror.ErrExternalService)
	}

	duration, err := resolveDuration(asset.DurationSeconds, req.TimeDuration)
	if err != nil {
		return nil, err
	}

	sub := &entity.SubSection{
		SectionID:    section.ID,
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		VideoURL:     asset.URL,
		TimeDuration: duration,
	}
	if err := s.subSections.Create(ctx, sub); err != nil {
		return nil, err
	}

	return s.sections.FindWithSubSections(ctx, section.ID)
}

func (s *sectionService) UpdateSubSection(ctx context.Context, instructorID uuid.UUID, req dto.UpdateSubSectionRequest, video *commonDto.UploadFile) (*entity.Section, error) {
	section, sub, err := s.ownedSubSection(ctx, instructorID, req.SectionID, req.SubSectionID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		sub.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		sub.Description = *req.Description
	}

	provided := ""
	if req.TimeDuration != nil {
		provided = *req.TimeDuration
		if sub.TimeDuration, err = resolveDuration(0, provided); err != nil {
			return nil, err
		}
	}

	oldVideo := ""
	if video != nil && video.Reader != nil {
		asset, err := s.media.UploadVideo(ctx, video.Reader, s.folder, video.FileName)
		if err != nil {
			return nil, fmt.Errorf("upload video: %w", apperror.ErrExternalService)
		}
		oldVideo = sub.VideoURL
		sub.VideoURL = asset.URL
		if asset.DurationSeconds > 0 || provided != "" {
			if sub.TimeDuration, err = resolveDuration(asset.DurationSeconds, provided); err != nil {
				return nil, err
			}
		}
	}

	if err := s.subSections.Update(ctx, sub); err != nil {
		return nil, err
	}

	if oldVideo != "" {
		s.deleteAsset(ctx, oldVideo)
	}

	return s.sections.FindWithSubSections(ctx, section.ID)
}

func (s *sectionService) DeleteSubSection(ctx context.Context, instructorID uuid.UUID, req dto.DeleteSubSectionRequest) (*entity.Section, error) {
	section, sub, err := s.ownedSubSection(ctx, instructorID, req.SectionID, req.SubSectionID)
	if err != nil {
		return nil, err
	}

	if err := s.subSections.Delete(ctx, sub.ID); err != nil {
		return nil, err
	}
	s.deleteAsset(ctx, sub.VideoURL)

	return s.sections.FindWithSubSections(ctx, section.ID)
}

func (s *sectionService) checkOwner(ctx context.Context, instructorID, courseID uuid.UUID) error {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("course not found: %w", apperror.ErrNotFound)
		}
		return err
	}
	if course.InstructorID != instructorID {
		return fmt.Errorf("you are not the instructor of this course: %w", apperror.ErrForbidden)
	}
	return nil
}

func (s *sectionService) courseSection(ctx context.Context, instructorID uuid.UUID, rawCourseID, rawSectionID string) (*entity.Section, error) {
	courseID, err := parseID("course", rawCourseID)
	if err != nil {
		return nil, err
	}

	section, err := s.ownedSection(ctx, instructorID, rawSectionID)
	if err != nil {
		return nil, err
	}
	if section.CourseID != courseID {
		return nil, fmt.Errorf("section does not belong to course: %w", apperror.ErrNotFound)
	}
	return section, nil
}

func (s *sectionService) ownedSection(ctx context.Context, instructorID uuid.UUID, rawSectionID string) (*entity.Section, error) {
	sectionID, err := parseID("section", rawSectionID)
	if err != nil {
		return nil, err
	}

	section, err := s.sections.FindByID(ctx, sectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("section not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	if err := s.checkOwner(ctx, instructorID, section.CourseID); err != nil {
		return nil, err
	}
	return section, nil
}

func (s *sectionService) ownedSubSection(ctx context.Context, instructorID uuid.UUID, rawSectionID, rawSubSectionID string) (*entity.Section, *entity.SubSection, error) {
	subSectionID, err := parseID("subsection", rawSubSectionID)
	if err != nil {
		return nil, nil, err
	}

	section, err := s.ownedSection(ctx, instructorID, rawSectionID)
	if err != nil {
		return nil, nil, err
	}

	sub, err := s.subSections.FindByID(ctx, subSectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("subsection not found: %w", apperror.ErrNotFound)
		}
		return nil, nil, err
	}
	if sub.SectionID != section.ID {
		return nil, nil, fmt.Errorf("subsection does not belong to section: %w", apperror.ErrNotFound)
	}
	return section, sub, nil
}

func (s *sectionService) deleteAsset(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.media.Delete(ctx, url); err != nil {
		s.logger.Warn("failed to delete video", zap.String("url", url), zap.Error(err))
	}
}

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s id: %w", field, apperror.ErrInvalidInput)
	}
	return id, nil
}
