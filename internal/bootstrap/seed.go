package bootstrap

import (
	"anoa.com/eduelevate/internal/entity"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	adminEmail    = "admin@eduelevate.com"
	adminPassword = "admin123"
)

var defaultCategories = []struct {
	Name        string
	Description string
}{
	{"Web Development", "Frontend, backend and full stack web development"},
	{"Data Science", "Statistics, machine learning and data analysis"},
	{"Mobile Development", "Android, iOS and cross platform apps"},
	{"DevOps", "Cloud infrastructure, CI/CD and automation"},
}

func SeedAdminUser(db *gorm.DB, logger *zap.Logger) error {
	var count int64
	if err := db.Model(&entity.User{}).
		Where("email = ?", adminEmail).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Debug("admin user already exists, skipping seed")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	about := "Platform administrator"
	admin := entity.User{
		FirstName:    "Admin",
		LastName:     "EduElevate",
		Email:        adminEmail,
		PasswordHash: string(hashed),
		AccountType:  entity.AccountAdmin,
		Active:       true,
		Image:        "https://api.dicebear.com/5.x/initials/svg?seed=Admin%20EduElevate",
		Profile:      &entity.Profile{About: &about},
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	logger.Info("admin user seeded", zap.String("email", adminEmail))
	return nil
}

func SeedCategories(db *gorm.DB, logger *zap.Logger) error {
	for _, c := range defaultCategories {
		slug := entity.Slugify(c.Name)

		var count int64
		if err := db.Model(&entity.Category{}).
			Where("slug = ?", slug).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&entity.Category{Name: c.Name, Slug: slug, Description: c.Description}).Error; err != nil {
				return err
			}
			logger.Info("category seeded", zap.String("name", c.Name))
		}
	}
	return nil
}
