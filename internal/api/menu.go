package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"

	"tablebay/internal/models"
)

// ListMenu retrieves all available menu items grouped for display.
// Unavailable items are hidden from the public menu.
func (s *Server) ListMenu(c *gin.Context) {
	var items []models.MenuItem
	query := s.db.Where("is_available = ?", true)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Order("category, name").Find(&items).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetMenuItem retrieves one menu item by ID.
func (s *Server) GetMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := s.db.Where("id = ?", c.Param("id")).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// ListGallery retrieves gallery images in display order.
func (s *Server) ListGallery(c *gin.Context) {
	var images []models.GalleryImage
	if err := s.db.Order("position").Find(&images).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, images)
}

// CreateMenuItem adds a dish to the catalog.
func (s *Server) CreateMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := models.ValidateMenuItem(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.db.Create(&item).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateMenuItem overwrites a dish's editable fields. Orders already
// placed keep their snapshotted prices.
func (s *Server) UpdateMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := s.db.Where("id = ?", c.Param("id")).First(&item).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	var updates models.MenuItem
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item.Name = updates.Name
	item.Description = updates.Description
	item.Category = updates.Category
	item.PriceCents = updates.PriceCents
	item.ImageURL = updates.ImageURL
	item.IsAvailable = updates.IsAvailable
	if err := models.ValidateMenuItem(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.db.Save(&item).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteMenuItem removes a dish from the catalog.
func (s *Server) DeleteMenuItem(c *gin.Context) {
	if err := s.db.Where("id = ?", c.Param("id")).Delete(&models.MenuItem{}).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}
