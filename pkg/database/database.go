package database

import (
	"fmt"
	"log"

	"agriverse_backend/internal/config"
	"agriverse_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		// Duplicate-key races on lazy progress creation rely on
		// gorm.ErrDuplicatedKey being distinguishable.
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	if err := SeedDefaultCatalog(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Module{},
		&model.Video{},
		&model.Progress{},
		&model.ModuleProgress{},
		&model.VideoProgress{},
		&model.Farmer{},
		&model.Course{},
		&model.CourseVideo{},
		&model.CourseRating{},
		&model.Enrollment{},
		&model.Purchase{},
		&model.PurchaseVideoWatch{},
	)
}

// SeedDefaultCatalog inserts the default curriculum when the catalog is empty.
// Destructive reseeds go through the learning service instead.
func SeedDefaultCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Module{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, m := range model.DefaultCurriculum() {
		m.CatalogVersion = 1
		if err := db.Create(&m).Error; err != nil {
			return err
		}
	}

	log.Println("Default learning modules initialized")
	return nil
}
