package service

import (
	"testing"
	"time"

	"anoa.com/eduelevate/internal/entity"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestToDoc(t *testing.T) {
	s := &meiliSearchService{sanitizer: bluemonday.StrictPolicy(), logger: zap.NewNop()}

	course := &entity.Course{
		ID:          uuid.New(),
		Name:        "Go for Backend",
		Description: "<p>Learn <b>Go</b></p><p>fast &amp; well</p>",
		Tags:        []string{"go", "backend"},
		Price:       499,
		Status:      entity.CoursePublished,
		CategoryID:  uuid.New(),
		Category:    &entity.Category{Name: "Programming"},
		Instructor:  &entity.User{FirstName: "Asha", LastName: "Rao"},
		CreatedAt:   time.Unix(1700000000, 0),
	}

	doc := s.toDoc(course)
	assert.Equal(t, course.ID.String(), doc.ID)
	assert.Equal(t, "Learn Go fast & well", doc.Description)
	assert.Equal(t, []string{"go", "backend"}, doc.Tags)
	assert.Equal(t, "Programming", doc.CategoryName)
	assert.Equal(t, "Asha Rao", doc.Instructor)
	assert.EqualValues(t, 1700000000, doc.CreatedAt)
}
