package migration

import (
	"fmt"
	"log"

	"pantrywatch/entities"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.PerishableItem{}); err != nil {
		log.Fatalf("Error migrating perishable item database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.PushSubscription{}); err != nil {
		log.Fatalf("Error migrating push subscription database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.SuggestionCacheEntry{}); err != nil {
		log.Fatalf("Error migrating suggestion cache database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.NotificationLog{}); err != nil {
		log.Fatalf("Error migrating notification log database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
