package main

import (
	"os"
	"strings"

	"fintrack/logging"
	"fintrack/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func initDB() {
	var err error
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		logging.L().Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logging.L().Fatalf("failed to connect postgres database: %v", err)
	}
	// Control schema migrations with env DB_AUTO_MIGRATE (default true). Any permission errors will be logged and ignored.
	shouldMigrate := true
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}
	if shouldMigrate {
		migrateAll(db)
	}
	seedDB()
}

// migrateAll migrates models individually so a failure on one doesn't block others.
func migrateAll(gdb *gorm.DB) {
	if err := gdb.AutoMigrate(&models.User{}); err != nil {
		logging.L().Warnf("migration warning (users): %v", err)
	}
	if err := gdb.AutoMigrate(&models.Income{}); err != nil {
		logging.L().Warnf("migration warning (incomes): %v", err)
	}
	if err := gdb.AutoMigrate(&models.Expense{}); err != nil {
		logging.L().Warnf("migration warning (expenses): %v", err)
	}
	if err := gdb.AutoMigrate(&models.RefreshToken{}); err != nil {
		logging.L().Warnf("migration warning (refresh_tokens): %v", err)
	}
}

func seedDB() {
	// Seed the bootstrap admin account if no admin exists yet.
	var count int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count == 0 {
		email := os.Getenv("ADMIN_EMAIL")
		if email == "" {
			email = "admin@example.com"
		}
		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			password = "admin123"
		}
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		admin := models.User{
			FullName:       "Administrator",
			Email:          email,
			Role:           models.RoleAdmin,
			HashedPassword: hashedPassword,
		}
		if err := db.Create(&admin).Error; err != nil {
			logging.L().Warnf("failed to seed admin account: %v", err)
		} else {
			logging.L().Infof("Seeded admin account: %s", email)
		}
	}
	ensureUploadBase()
}

// ensureUploadBase creates the base uploads directory and its subfolders.
func ensureUploadBase() {
	base := uploadBaseDir()
	for _, dir := range []string{base, base + "/profile", base + "/receipts"} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logging.L().Warnf("failed to create upload dir %s: %v", dir, err)
		}
	}
}

// uploadBaseDir returns the base directory for local uploads (configurable via UPLOAD_BASE env)
func uploadBaseDir() string {
	if v := os.Getenv("UPLOAD_BASE"); v != "" {
		return v
	}
	return "uploads"
}
