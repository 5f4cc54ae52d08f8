package database

import (
	"fmt"
	"log"

	"projectgreen_backend/internal/config"
	"projectgreen_backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
		cfg.Database.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if shouldMigrate(cfg) {
		err = db.AutoMigrate(
			&model.User{},
			&model.TrainingModule{},
			&model.Flashcard{},
			&model.Video{},
			&model.Quiz{},
			&model.QuizQuestion{},
			&model.QuizOption{},
			&model.ItemProgress{},
			&model.ModuleProgress{},
			&model.Achievement{},
			&model.Checkin{},
		)

		if err != nil {
			return nil, err
		}

		log.Println("Database migration completed")

		if err := seedAdmin(db); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// shouldMigrate decides whether AutoMigrate runs on startup. Release
// deployments skip it unless --migrate is passed; every other mode
// migrates so a fresh checkout works out of the box.
func shouldMigrate(cfg *config.Config) bool {
	return cfg.Server.Mode != "release" || cfg.ForceMigrate
}

// seedAdmin creates the default platform administrator on an empty users
// table so the authoring endpoints are reachable on a fresh install.
func seedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).Where("role = ?", model.Admin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &model.User{
		Name:     "Super Admin",
		Email:    "admin@projectgreen.com",
		Phone:    "+911234567890",
		Password: string(hashed),
		Role:     model.Admin,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("Seeded admin user: %s", admin.Email)
	return nil
}
