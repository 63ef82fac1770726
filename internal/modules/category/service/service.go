package category

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"anoa.com/eduelevate/internal/entity"
	"anoa.com/eduelevate/internal/modules/category/dto"
	"anoa.com/eduelevate/internal/modules/category/repository"
	"anoa.com/eduelevate/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const mostSellingLimit = 10

type CategoryService interface {
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	ShowAllCategories(ctx context.Context) ([]dto.CategoryResponse, error)
	CategoryPageDetails(ctx context.Context, categoryID uuid.UUID) (*dto.CategoryPageResponse, error)
}

type categoryService struct {
	repo repository.CategoryRepository
	pick func(n int) int
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo, pick: rand.IntN}
}

func (s *categoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(req.Name)
	slug := entity.Slugify(name)
	if slug == "" {
		return nil, fmt.Errorf("category name is required: %w", apperror.ErrInvalidInput)
	}

	if _, err := s.repo.FindBySlug(ctx, slug); err == nil {
		return nil, fmt.Errorf("category with name %s already exists: %w", name, apperror.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category := &entity.Category{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("category with name %s already exists: %w", name, apperror.ErrConflict)
		}
		return nil, err
	}

	res := toResponse(category)
	return &res, nil
}

func (s *categoryService) ShowAllCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]dto.CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		res = append(res, toResponse(cat))
	}
	return res, nil
}

func (s *categoryService) CategoryPageDetails(ctx context.Context, categoryID uuid.UUID) (*dto.CategoryPageResponse, error) {
	selected, err := s.repo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	courses, err := s.repo.FindPublishedCourses(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, fmt.Errorf("no courses found for the selected category: %w", apperror.ErrNotFound)
	}

	res := &dto.CategoryPageResponse{
		SelectedCategory: dto.CategoryWithCourses{CategoryResponse: toResponse(selected), Courses: courses},
	}

	others, err := s.repo.FindOthersWithCourses(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if len(others) > 0 {
		other := others[s.pick(len(others))]
		otherCourses, err := s.repo.FindPublishedCourses(ctx, other.ID)
		if err != nil {
			return nil, err
		}
		res.DifferentCategory = &dto.CategoryWithCourses{CategoryResponse: toResponse(other), Courses: otherCourses}
	}

	if res.MostSellingCourses, err = s.mostSelling(ctx); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *categoryService) mostSelling(ctx context.Context) ([]dto.SellingCourse, error) {
	sales, err := s.repo.TopSelling(ctx, mostSellingLimit)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(sales))
	for _, sale := range sales {
		ids = append(ids, sale.CourseID)
	}
	courses, err := s.repo.FindCoursesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]entity.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	res := make([]dto.SellingCourse, 0, len(sales))
	for _, sale := range sales {
		if c, ok := byID[sale.CourseID]; ok {
			res = append(res, dto.SellingCourse{Course: c, StudentsEnrolled: sale.Total})
		}
	}
	return res, nil
}

func toResponse(c *entity.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
	}
}
