package config

import (
	"bazaar/domain"
	"bazaar/utils"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func GetDatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_SSLMODE"),
	)
}

func BootDB() (*gorm.DB, error) {
	var gormLogger logger.Interface
	if os.Getenv("APP_ENV") == "development" {
		gormLogger = logger.Default.LogMode(logger.Info)
	} else {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(postgres.Open(GetDatabaseURL()), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Product{},
		&domain.OTPChallenge{},
		&domain.OTPRequestLog{},
	); err != nil {
		return nil, fmt.Errorf("auto-migrate schemas: %w", err)
	}

	if err := seedAdminUser(db); err != nil {
		return nil, err
	}
	if os.Getenv("APP_ENV") == "development" {
		if err := seedDemoData(db); err != nil {
			return nil, err
		}
	}

	log.Info().Msg("connected to database")
	return db, nil
}

// seedAdminUser creates the initial admin account from env on an empty
// deployment. Idempotent: skipped once any admin exists.
func seedAdminUser(db *gorm.DB) error {
	var count int64
	db.Model(&domain.User{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	if count > 0 {
		return nil
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPass := os.Getenv("ADMIN_PASSWORD")
	adminName := os.Getenv("ADMIN_NAME")
	if adminEmail == "" || adminPass == "" {
		log.Warn().Msg("skipping admin seeding, missing ADMIN_EMAIL or ADMIN_PASSWORD in env")
		return nil
	}

	hashed, err := utils.HashPassword(adminPass)
	if err != nil {
		return err
	}
	admin := domain.User{
		ID:       uuid.NewString(),
		Email:    adminEmail,
		Password: hashed,
		Name:     adminName,
		Role:     domain.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	log.Info().Str("email", adminEmail).Msg("seeded admin user")
	return nil
}

// seedDemoData populates a demo seller with a few products so a fresh
// development database has something to browse. Skipped once any
// product exists.
func seedDemoData(db *gorm.DB) error {
	var count int64
	db.Model(&domain.Product{}).Count(&count)
	if count > 0 {
		return nil
	}

	hashed, err := utils.HashPassword("password123")
	if err != nil {
		return err
	}
	seller := domain.User{
		ID:       uuid.NewString(),
		Email:    "demo.seller@bazaar.local",
		Password: hashed,
		Name:     "Demo Seller",
		Role:     domain.RoleSeller,
	}
	if err := db.Where(domain.User{Email: seller.Email}).FirstOrCreate(&seller).Error; err != nil {
		return fmt.Errorf("seed demo seller: %w", err)
	}

	products := []domain.Product{
		{
			ID:          uuid.NewString(),
			Name:        "Wireless Headphones",
			Description: "Over-ear headphones with 30h battery life",
			Price:       89.99,
			Category:    "electronics",
			Stock:       25,
			SellerID:    seller.ID,
		},
		{
			ID:          uuid.NewString(),
			Name:        "Ceramic Pour-Over Set",
			Description: "Dripper, carafe and two cups",
			Price:       34.50,
			Category:    "home",
			Stock:       12,
			SellerID:    seller.ID,
		},
		{
			ID:          uuid.NewString(),
			Name:        "Trail Running Shoes",
			Description: "Lightweight with aggressive grip",
			Price:       119.00,
			Category:    "sports",
			Stock:       8,
			SellerID:    seller.ID,
		},
	}
	if err := db.Create(&products).Error; err != nil {
		return fmt.Errorf("seed demo products: %w", err)
	}

	log.Info().Int("products", len(products)).Msg("seeded demo data")
	return nil
}
