package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"tablebay/internal/auth"
	"tablebay/internal/models"
	"tablebay/internal/reservations"
)

// AdminLogin exchanges the configured staff credentials for a JWT.
func (s *Server) AdminLogin(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Username != s.cfg.Auth.AdminUsername || req.Password != s.cfg.Auth.AdminPassword {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	ttl := time.Duration(s.cfg.Auth.TokenTTLMinutes) * time.Minute
	token, err := auth.GenerateToken(s.cfg.Auth.JWTSecret, req.Username, ttl)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// ListOrders returns all orders, optionally filtered by status.
func (s *Server) ListOrders(c *gin.Context) {
	list, err := s.orders.List(models.OrderStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// UpdateOrderStatus applies one staff-driven status transition.
func (s *Server) UpdateOrderStatus(c *gin.Context) {
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := s.orders.Transition(c.Request.Context(), c.Param("number"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// ListReservations returns reservations, optionally filtered to one
// date via ?date=YYYY-MM-DD.
func (s *Server) ListReservations(c *gin.Context) {
	list, err := s.reservations.List(c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func reservationID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return 0, false
	}
	return uint(id), true
}

// UpdateReservation applies a staff partial update; slot changes are
// re-validated against capacity.
func (s *Server) UpdateReservation(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}

	var req reservations.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resv, err := s.reservations.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resv)
}

// UpdateReservationStatus applies one staff-driven status transition.
func (s *Server) UpdateReservationStatus(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}

	var req struct {
		Status models.ReservationStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resv, err := s.reservations.Transition(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resv)
}
