package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kiloukoi/service-booking/internal/application"
	"github.com/kiloukoi/service-booking/internal/platform/auth"
	"github.com/kiloukoi/service-booking/internal/platform/middleware"
	"github.com/kiloukoi/service-booking/internal/platform/response"
)

// AdminHandler exposes the moderation and statistics surface.
type AdminHandler struct {
	bookings   *application.BookingService
	promotions *application.PromotionService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(bookings *application.BookingService, promotions *application.PromotionService) *AdminHandler {
	return &AdminHandler{bookings: bookings, promotions: promotions}
}

// RegisterRoutes registers all admin routes on the given router group.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/bookings/stats", h.GetBookingStats)
		admin.GET("/promotions", h.ListPromotions)
		admin.GET("/promotions/stats", h.GetPromotionStats)
	}
}

// ListBookings handles GET /api/v1/admin/bookings.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, limit := parsePagination(c)

	items, total, err := h.bookings.ListAllBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, items, total, page, limit)
}

// GetBookingStats handles GET /api/v1/admin/bookings/stats.
func (h *AdminHandler) GetBookingStats(c *gin.Context) {
	stats, err := h.bookings.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// ListPromotions handles GET /api/v1/admin/promotions.
func (h *AdminHandler) ListPromotions(c *gin.Context) {
	page, limit := parsePagination(c)

	items, total, err := h.promotions.ListAllPromotions(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, items, total, page, limit)
}

// GetPromotionStats handles GET /api/v1/admin/promotions/stats.
func (h *AdminHandler) GetPromotionStats(c *gin.Context) {
	stats, err := h.promotions.GetPromotionStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}
