package bootstrap

import (
	"anoa.com/eduelevate/internal/entity"
	"gorm.io/gorm"
)

// Models lists every table owned by the service, parents first.
func Models() []any {
	return []any{
		&entity.User{},
		&entity.Profile{},
		&entity.Category{},
		&entity.Course{},
		&entity.Section{},
		&entity.SubSection{},
		&entity.Enrollment{},
		&entity.CourseProgress{},
		&entity.CompletedLecture{},
		&entity.RatingAndReview{},
		&entity.OTP{},
		&entity.PaymentOrder{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
