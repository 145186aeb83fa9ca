package main

import (
	"fmt"
	"time"

	classifiedsModel "community-portal/internal/classifieds/model"
	identityModel "community-portal/internal/identity/model"
	"community-portal/pkg/config"
	"community-portal/pkg/database"
	"community-portal/pkg/logger"
	"community-portal/pkg/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	if err := db.AutoMigrate(
		&identityModel.UserModel{},
		&classifiedsModel.AdModel{},
		&classifiedsModel.AdImageModel{},
		&models.Category{},
		&models.Event{},
		&models.Business{},
		&models.Feedback{},
	); err != nil {
		log.Error("Migration failed: %v", err)
		panic(err)
	}

	if err := seedDatabase(db, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func seedDatabase(db *gorm.DB, log *logger.Logger) error {
	accounts := []struct {
		email    string
		fullName string
		password string
		role     models.UserRole
	}{
		{"admin@portal.test", "Portal Admin", "admin123", models.RoleAdmin},
		{"moderator@portal.test", "Portal Moderator", "moderator123", models.RoleModerator},
		{"vendor@portal.test", "Corner Diner", "vendor123", models.RoleVendor},
		{"resident@portal.test", "Jamie Resident", "resident123", models.RoleUser},
	}

	for _, a := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		user := identityModel.UserModel{
			Email:        a.email,
			PasswordHash: string(hash),
			FullName:     a.fullName,
			Role:         a.role,
			IsActive:     true,
		}
		if err := db.Where("email = ?", a.email).FirstOrCreate(&user).Error; err != nil {
			return err
		}
		log.Info("Seeded account %s (%s)", a.email, a.role)
	}

	categories := []models.Category{
		{Name: "For Sale", Type: models.CategoryTypeClassified, Subcategories: []string{"Furniture", "Electronics", "Vehicles", "Other"}},
		{Name: "Housing", Type: models.CategoryTypeClassified, Subcategories: []string{"For Rent", "Roommates"}},
		{Name: "Services", Type: models.CategoryTypeClassified, Subcategories: []string{"Lessons", "Repairs", "Childcare"}},
		{Name: "Community", Type: models.CategoryTypeEvent, Subcategories: []string{"Markets", "Meetings", "Festivals"}},
		{Name: "Restaurants", Type: models.CategoryTypeBusiness, Subcategories: nil},
		{Name: "Shops", Type: models.CategoryTypeBusiness, Subcategories: nil},
	}

	categoryIDs := make(map[string]string)
	for i := range categories {
		c := &categories[i]
		if err := db.Where("name = ? AND type = ?", c.Name, c.Type).FirstOrCreate(c).Error; err != nil {
			return err
		}
		categoryIDs[c.Name] = c.ID
	}
	log.Info("Seeded %d categories", len(categories))

	phone := "555-0101"
	price := 125.0
	ads := []classifiedsModel.AdModel{
		{
			Title:        "Oak dining table",
			Description:  "Seats six, light wear. Pickup only.",
			CategoryID:   categoryIDs["For Sale"],
			Subcategory:  stringPtr("Furniture"),
			Price:        &price,
			Location:     "Newark, DE",
			ContactName:  "Jamie Resident",
			ContactEmail: "resident@portal.test",
			ContactPhone: &phone,
			AuthorName:   "Jamie Resident",
			Status:       "pending",
		},
		{
			Title:        "Piano lessons",
			Description:  "Beginner friendly, weekday evenings.",
			CategoryID:   categoryIDs["Services"],
			Subcategory:  stringPtr("Lessons"),
			Location:     "Newark, DE",
			ContactName:  "M. Keys",
			ContactEmail: "keys@portal.test",
			AuthorName:   "M. Keys",
			Status:       "approved",
		},
	}
	for i := range ads {
		ad := &ads[i]
		if err := db.Where("title = ? AND contact_email = ?", ad.Title, ad.ContactEmail).FirstOrCreate(ad).Error; err != nil {
			return err
		}
	}
	log.Info("Seeded %d classifieds", len(ads))

	events := []models.Event{
		{
			Title:       "Farmers Market",
			Description: "Weekly market on the green.",
			Category:    "Markets",
			Location:    "Town Green",
			StartTime:   nextSaturday(),
			IsFeatured:  true,
		},
	}
	for i := range events {
		e := &events[i]
		if err := db.Where("title = ?", e.Title).FirstOrCreate(e).Error; err != nil {
			return err
		}
	}

	businesses := []models.Business{
		{
			Name:        "Corner Diner",
			Description: "Breakfast all day.",
			Category:    "Restaurants",
			Address:     "12 Main St",
			Phone:       "555-0142",
			IsFeatured:  true,
		},
	}
	for i := range businesses {
		b := &businesses[i]
		if err := db.Where("name = ?", b.Name).FirstOrCreate(b).Error; err != nil {
			return err
		}
	}

	return nil
}

func nextSaturday() time.Time {
	t := time.Now().Truncate(24 * time.Hour).Add(9 * time.Hour)
	for t.Weekday() != time.Saturday || t.Before(time.Now()) {
		t = t.Add(24 * time.Hour)
	}
	return t
}

func stringPtr(s string) *string {
	return &s
}
