package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tablebay/internal/checkout"
	"tablebay/internal/reservations"
)

// CheckAvailability answers the advisory availability query for a
// date, time and party size.
func (s *Server) CheckAvailability(c *gin.Context) {
	date := c.Query("date")
	slot := c.Query("time")
	partySize, err := strconv.Atoi(c.DefaultQuery("party_size", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "party_size must be a number"})
		return
	}

	result, err := s.reservations.CheckAvailability(date, slot, partySize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateReservation books a table directly, outside of checkout, for
// guests who only want a reservation without ordering ahead.
func (s *Server) CreateReservation(c *gin.Context) {
	var req reservations.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resv, err := s.reservations.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resv)
}

// Checkout finalizes the session's cart into an order and, for
// dine-in, a paired reservation.
func (s *Server) Checkout(c *gin.Context) {
	session, ok := sessionID(c)
	if !ok {
		return
	}

	var req checkout.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.checkout.Finalize(c.Request.Context(), session, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetOrder returns one order by its number, for customer tracking.
func (s *Server) GetOrder(c *gin.Context) {
	order, err := s.orders.GetByNumber(c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetOrderQR serves the pickup collection code as a PNG.
func (s *Server) GetOrderQR(c *gin.Context) {
	png, err := s.orders.PickupQR(c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
