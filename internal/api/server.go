// Package api is the HTTP surface: public menu, gallery and cart
// routes, the checkout endpoint, and the JWT-guarded staff routes for
// order and reservation management.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"

	"tablebay/internal/auth"
	"tablebay/internal/cart"
	"tablebay/internal/checkout"
	"tablebay/internal/config"
	"tablebay/internal/errs"
	"tablebay/internal/orders"
	"tablebay/internal/reservations"
)

// Server wires the services onto a gin router.
type Server struct {
	Router       *gin.Engine
	db           *gorm.DB
	carts        cart.Store
	orders       *orders.Service
	reservations *reservations.Service
	checkout     *checkout.Orchestrator
	hub          *Hub
	cfg          *config.Config
}

// NewServer builds the router and registers all routes.
func NewServer(cfg *config.Config, db *gorm.DB, carts cart.Store, resv *reservations.Service, ord *orders.Service, orch *checkout.Orchestrator, hub *Hub) *Server {
	s := &Server{
		Router:       gin.Default(),
		db:           db,
		carts:        carts,
		orders:       ord,
		reservations: resv,
		checkout:     orch,
		hub:          hub,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	// Health check
	s.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "TableBay API is running"})
	})

	v1 := s.Router.Group("/api/v1")
	{
		// Public catalog
		v1.GET("/menu", s.ListMenu)
		v1.GET("/menu/:id", s.GetMenuItem)
		v1.GET("/gallery", s.ListGallery)

		// Cart (keyed by the X-Session-ID header)
		v1.GET("/cart", s.GetCart)
		v1.POST("/cart/items", s.AddCartItem)
		v1.PUT("/cart/items/:itemId", s.UpdateCartItem)
		v1.DELETE("/cart/items/:itemId", s.RemoveCartItem)
		v1.DELETE("/cart", s.ClearCart)

		// Booking and checkout
		v1.GET("/availability", s.CheckAvailability)
		v1.POST("/reservations", s.CreateReservation)
		v1.POST("/checkout", s.Checkout)

		// Order tracking
		v1.GET("/orders/:number", s.GetOrder)
		v1.GET("/orders/:number/qr", s.GetOrderQR)

		// Staff
		v1.POST("/admin/login", s.AdminLogin)
		admin := v1.Group("/admin", auth.AuthMiddleware(s.cfg.Auth.JWTSecret))
		{
			admin.GET("/orders", s.ListOrders)
			admin.PUT("/orders/:number/status", s.UpdateOrderStatus)
			admin.GET("/reservations", s.ListReservations)
			admin.PUT("/reservations/:id", s.UpdateReservation)
			admin.PUT("/reservations/:id/status", s.UpdateReservationStatus)
			admin.POST("/menu", s.CreateMenuItem)
			admin.PUT("/menu/:id", s.UpdateMenuItem)
			admin.DELETE("/menu/:id", s.DeleteMenuItem)
			admin.GET("/board", s.handleBoard)
		}
	}
}

// sessionID extracts the cart session key, writing a 400 when missing.
func sessionID(c *gin.Context) (string, bool) {
	id := c.GetHeader("X-Session-ID")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Session-ID header required"})
		return "", false
	}
	return id, true
}

// respondError maps the error taxonomy onto HTTP statuses. Capacity
// conflicts carry the alternatives list so the client can offer them.
func respondError(c *gin.Context, err error) {
	var capacity *errs.CapacityConflictError
	if errors.As(err, &capacity) {
		c.JSON(http.StatusConflict, gin.H{
			"error":        capacity.Error(),
			"alternatives": capacity.Alternatives,
		})
		return
	}

	status := http.StatusInternalServerError
	switch errs.Kind(err) {
	case "validation":
		status = http.StatusBadRequest
	case "not_found":
		status = http.StatusNotFound
	case "state_conflict":
		status = http.StatusConflict
	case "transient":
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
