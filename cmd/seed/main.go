// Package main seeds the package catalog, the auto-pool level catalog and
// the initial admin account. Safe to run repeatedly; existing rows are left
// alone.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/srigunasankarkatta/mlm-backend/internal/config"
	"github.com/srigunasankarkatta/mlm-backend/internal/models"
	"github.com/srigunasankarkatta/mlm-backend/internal/repositories"
	"github.com/srigunasankarkatta/mlm-backend/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

var packagePrices = []float64{20, 40, 60, 80, 100, 150, 200, 300, 500, 1000}

var poolLevels = []models.AutoPoolLevel{
	{Level: 4, Name: "4-Star", BonusAmount: 0.50, RequiredPackageTier: 1, RequiredDirects: 4, RequiredGroupSize: 4, SortOrder: 1},
	{Level: 16, Name: "16-Star", BonusAmount: 16, RequiredPackageTier: 2, RequiredDirects: 4, RequiredGroupSize: 16, SortOrder: 2},
	{Level: 64, Name: "64-Star", BonusAmount: 64, RequiredPackageTier: 3, RequiredDirects: 4, RequiredGroupSize: 64, SortOrder: 3},
	{Level: 256, Name: "256-Star", BonusAmount: 256, RequiredPackageTier: 3, RequiredDirects: 4, RequiredGroupSize: 256, SortOrder: 4},
	{Level: 1024, Name: "1024-Star", BonusAmount: 1024, RequiredPackageTier: 3, RequiredDirects: 4, RequiredGroupSize: 1024, SortOrder: 5},
}

func main() {
	config.LoadEnv()

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if repositories.DB != nil {
			if sqlDB, err := repositories.DB.DB(); err == nil {
				sqlDB.Close()
			}
		}
		if repositories.CacheService != nil {
			repositories.CacheService.Close()
		}
	}()

	seedPackages()
	seedPoolLevels()
	seedAdmin()

	log.Println("Seed complete")
}

func seedPackages() {
	for i, price := range packagePrices {
		level := i + 1
		pkg := models.Package{
			Name:        fmt.Sprintf("Package-%d", level),
			Price:       price,
			LevelUnlock: level,
		}
		var existing models.Package
		if err := repositories.DB.Where("level_unlock = ?", level).First(&existing).Error; err == nil {
			continue
		}
		if err := repositories.DB.Create(&pkg).Error; err != nil {
			log.Fatalf("Failed to seed package %d: %v", level, err)
		}
		log.Printf("Seeded package %s at %.2f", pkg.Name, pkg.Price)
	}
}

func seedPoolLevels() {
	for _, lvl := range poolLevels {
		var existing models.AutoPoolLevel
		if err := repositories.DB.Where("level = ?", lvl.Level).First(&existing).Error; err == nil {
			continue
		}
		lvl.IsActive = true
		if err := repositories.DB.Create(&lvl).Error; err != nil {
			log.Fatalf("Failed to seed auto pool level %d: %v", lvl.Level, err)
		}
		log.Printf("Seeded auto pool level %s", lvl.Name)
	}
}

func seedAdmin() {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Println("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	var existing models.User
	if err := repositories.DB.Where("email = ?", adminEmail).First(&existing).Error; err == nil {
		log.Println("Admin user already exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash admin password:", err)
	}

	admin := models.User{
		Name:         "Admin",
		Email:        adminEmail,
		Password:     string(hashed),
		Role:         models.RoleAdmin,
		ReferralCode: utils.NewReferralCode(),
	}
	if err := repositories.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}
	log.Printf("Seeded admin user %s", adminEmail)
}
