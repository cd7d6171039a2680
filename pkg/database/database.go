package database

import (
	"fmt"
	"log"
	"simtrain_backend/internal/config"
	"simtrain_backend/internal/model"

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
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.Organization{},
		&model.User{},
		&model.GameSession{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// Standalone deployments get a default organization so group admins can
	// be created before any customer org exists.
	var count int64
	db.Model(&model.Organization{}).Count(&count)
	if count == 0 {
		db.Create(&model.Organization{
			Name:        "Default Organization",
			Description: "Auto-created organization for standalone deployments",
		})
	}

	return db, nil
}
