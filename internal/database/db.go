package database

import (
	"github.com/jinzhu/gorm"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"tablebay/internal/models"
)

var DB *gorm.DB

// InitDB opens the database connection and migrates the schema.
// Driver is "sqlite3" or "postgres", matching the config.
func InitDB(driver, dsn string) error {
	var err error
	DB, err = gorm.Open(driver, dsn)
	if err != nil {
		return err
	}
	return Migrate(DB)
}

// Migrate creates and updates all tables the site needs: the menu and
// gallery data sources plus orders and reservations.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.MenuItem{},
		&models.GalleryImage{},
		&models.Order{},
		&models.OrderItem{},
		&models.Reservation{},
	).Error
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// CloseDB closes the database connection
func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
