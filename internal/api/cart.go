package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"

	"tablebay/internal/models"
)

// GetCart returns the session's cart with recomputed totals.
func (s *Server) GetCart(c *gin.Context) {
	session, ok := sessionID(c)
	if !ok {
		return
	}

	current, err := s.carts.Get(c.Request.Context(), session)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": current, "totals": current.Totals()})
}

// AddCartItem adds one menu item to the cart, merging with an existing
// line for the same item. The price is read from the catalog, never
// from the client.
func (s *Server) AddCartItem(c *gin.Context) {
	session, ok := sessionID(c)
	if !ok {
		return
	}

	var req struct {
		ItemID uint `json:"item_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var item models.MenuItem
	if err := s.db.Where("id = ? AND is_available = ?", req.ItemID, true).First(&item).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	current, err := s.carts.Get(c.Request.Context(), session)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	current.AddItem(item.ID, item.Name, item.PriceCents)
	if err := s.carts.Save(c.Request.Context(), session, current); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": current, "totals": current.Totals()})
}

// UpdateCartItem sets a line's exact quantity and, optionally, its
// special instructions. Quantity zero removes the line.
func (s *Server) UpdateCartItem(c *gin.Context) {
	session, ok := sessionID(c)
	if !ok {
		return
	}
	itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	var req struct {
		Quantity     *int    `json:"quantity"`
		Instructions *string `json:"instructions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	current, err := s.carts.Get(c.Request.Context(), session)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity != nil {
		current.UpdateQuantity(uint(itemID), *req.Quantity)
	}
	if req.Instructions != nil {
		current.UpdateInstructions(uint(itemID), *req.Instructions)
	}
	if err := s.carts.Save(c.Request.Context(), session, current); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": current, "totals": current.Totals()})
}

// RemoveCartItem deletes one line. Removing an absent item succeeds.
func (s *Server) RemoveCartItem(c *gin.Context) {
	session, ok := sessionID(c)
	if !ok {
		return
	}
	itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	current, err := s.carts.Get(c.Request.Context(), session)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	current.RemoveItem(uint(itemID))
	if err := s.carts.Save(c.Request.Context(), session, current); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": current, "totals": current.Totals()})
}

// ClearCart empties the session's cart.
func (s *Server) ClearCart(c *gin.Context) {
	session, ok := sessionID(c)
	if !ok {
		return
	}
	if err := s.carts.Clear(c.Request.Context(), session); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
