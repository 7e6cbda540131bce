package models

import (
	"fmt"

	"github.com/jinzhu/gorm"
)

// MenuItem represents a dish on the menu. Prices are ZAR cents; the
// catalog price is authoritative at add-to-cart time and snapshotted
// into the order at creation.
type MenuItem struct {
	gorm.Model
	Name        string
	Description string
	Category    string
	PriceCents  int64
	ImageURL    string
	IsAvailable bool `gorm:"default:true"`
}

// MenuCategory represents the category of a menu item
type MenuCategory string

const (
	// Menu categories
	MenuCategoryStarter  MenuCategory = "starter"
	MenuCategoryMain     MenuCategory = "main"
	MenuCategorySide     MenuCategory = "side"
	MenuCategoryDessert  MenuCategory = "dessert"
	MenuCategoryBeverage MenuCategory = "beverage"
	MenuCategoryGrill    MenuCategory = "grill"
)

// ValidateMenuItem validates a menu item
func ValidateMenuItem(item *MenuItem) error {
	if item.Name == "" {
		return fmt.Errorf("menu item name is required")
	}
	if item.PriceCents <= 0 {
		return fmt.Errorf("menu item price must be greater than 0")
	}
	if item.Category == "" {
		return fmt.Errorf("menu item category is required")
	}
	return nil
}

// IsInCategory checks if the item belongs to a specific category
func (mi *MenuItem) IsInCategory(category MenuCategory) bool {
	return mi.Category == string(category)
}
