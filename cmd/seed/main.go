package main

import (
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tresorier/caisse/internal/models"
)

func main() {
	db, err := gorm.Open(sqlite.Open("./data/caisse.db"), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Category{},
		&models.Article{},
		&models.Unit{},
		&models.Supplier{},
		&models.CashInflow{},
		&models.Expense{},
		&models.ExpenseItem{},
		&models.Reimbursement{},
		&models.ClosingPeriod{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Println("✓ Database migrated successfully")

	admin := models.User{
		Email:   "admin@example.org",
		Name:    "Administrateur",
		Role:    models.RoleAdmin,
		Admin:   true,
		Enabled: true,
	}
	if err := admin.SetPassword("changeme123"); err != nil {
		log.Fatal("Failed to hash password:", err)
	}
	if err := db.Where(models.User{Email: admin.Email}).FirstOrCreate(&admin).Error; err != nil {
		log.Fatal("Failed to seed admin:", err)
	}

	clerk := models.User{
		Email:         "caisse@example.org",
		Name:          "Caissier",
		Role:          models.RoleCashInflow,
		EntriesAccess: true,
		HistoryAccess: true,
		Enabled:       true,
	}
	if err := clerk.SetPassword("changeme123"); err != nil {
		log.Fatal("Failed to hash password:", err)
	}
	if err := db.Where(models.User{Email: clerk.Email}).FirstOrCreate(&clerk).Error; err != nil {
		log.Fatal("Failed to seed clerk:", err)
	}

	projects := []models.Project{
		{Name: "Fonctionnement", Description: "Frais de fonctionnement courant", Active: true},
		{Name: "Formation 2026", Description: "Cycle de formation annuel", Active: true},
	}
	for i := range projects {
		if err := db.Where(models.Project{Name: projects[i].Name}).FirstOrCreate(&projects[i]).Error; err != nil {
			log.Fatal("Failed to seed projects:", err)
		}
	}

	units := []models.Unit{
		{Name: "pièce", Symbol: "pc"},
		{Name: "kilogramme", Symbol: "kg"},
		{Name: "litre", Symbol: "l"},
	}
	for i := range units {
		if err := db.Where(models.Unit{Name: units[i].Name}).FirstOrCreate(&units[i]).Error; err != nil {
			log.Fatal("Failed to seed units:", err)
		}
	}

	inflow := models.CashInflow{
		Date:        time.Now().AddDate(0, 0, -7),
		Amount:      decimal.NewFromInt(500),
		Source:      models.SourcePCA,
		Description: "Avance PCA initiale",
		ProjectID:   &projects[0].ID,
		UserID:      admin.ID,
	}
	if err := db.Where(models.CashInflow{Description: inflow.Description}).FirstOrCreate(&inflow).Error; err != nil {
		log.Fatal("Failed to seed inflow:", err)
	}

	fmt.Println("✓ Seed data created")
	fmt.Println("  admin@example.org / changeme123")
	fmt.Println("  caisse@example.org / changeme123")
}
