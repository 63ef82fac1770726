// Package testutil holds helpers shared by repository and service tests.
package testutil

import (
	"fmt"
	"testing"

	"anoa.com/eduelevate/internal/bootstrap"
	"anoa.com/eduelevate/internal/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory sqlite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, bootstrap.Migrate(db))
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, accountType string) *entity.User {
	t.Helper()

	u := &entity.User{
		FirstName:    "Test",
		LastName:     accountType,
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hash",
		AccountType:  accountType,
		Profile:      &entity.Profile{},
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateCategory(t *testing.T, db *gorm.DB, name string) *entity.Category {
	t.Helper()

	c := &entity.Category{Name: name, Slug: uuid.NewString(), Description: name + " courses"}
	require.NoError(t, db.Create(c).Error)
	return c
}

// CreateCourse builds a published course whose sections hold the given number of lectures.
func CreateCourse(t *testing.T, db *gorm.DB, instructorID, categoryID uuid.UUID, price float64, lecturesPerSection ...int) *entity.Course {
	t.Helper()

	course := &entity.Course{
		Name:         "Course " + uuid.NewString()[:8],
		Description:  "desc",
		InstructorID: instructorID,
		CategoryID:   categoryID,
		Price:        price,
		Status:       entity.CoursePublished,
	}
	for i, n := range lecturesPerSection {
		section := entity.Section{Name: fmt.Sprintf("Section %d", i+1), Position: i}
		for j := 0; j < n; j++ {
			section.SubSections = append(section.SubSections, entity.SubSection{
				Title:        fmt.Sprintf("Lecture %d.%d", i+1, j+1),
				TimeDuration: "60",
			})
		}
		course.Sections = append(course.Sections, section)
	}
	require.NoError(t, db.Create(course).Error)
	return course
}
