package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kiloukoi/service-booking/internal/application"
	"github.com/kiloukoi/service-booking/internal/platform/auth"
	"github.com/kiloukoi/service-booking/internal/platform/middleware"
	"github.com/kiloukoi/service-booking/internal/platform/response"
)

// PromotionHandler handles HTTP requests for listing boosts.
type PromotionHandler struct {
	service *application.PromotionService
}

// NewPromotionHandler creates a new PromotionHandler.
func NewPromotionHandler(service *application.PromotionService) *PromotionHandler {
	return &PromotionHandler{service: service}
}

// RegisterRoutes registers all promotion routes on the given router group.
func (h *PromotionHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	r.GET("/api/v1/promotions/plans", h.ListPlans)
	r.GET("/api/v1/listings/:id/promotion", h.GetActivePromotion)

	promotions := r.Group("/api/v1/promotions")
	promotions.Use(authMW)
	{
		promotions.POST("/checkout", h.StartCheckout)
		promotions.POST("/callback", h.ReconcileCallback)
		promotions.GET("/mine", h.GetMyPromotions)
	}
}

// ListPlans handles GET /api/v1/promotions/plans.
func (h *PromotionHandler) ListPlans(c *gin.Context) {
	response.Success(c, h.service.ListPlans())
}

// GetActivePromotion handles GET /api/v1/listings/:id/promotion.
func (h *PromotionHandler) GetActivePromotion(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid listing ID")
		return
	}

	result, err := h.service.GetActivePromotion(c.Request.Context(), listingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// StartCheckout handles POST /api/v1/promotions/checkout.
func (h *PromotionHandler) StartCheckout(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.StartCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.StartCheckout(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ReconcileCallback handles POST /api/v1/promotions/callback, the return
// leg of the payment redirect.
func (h *PromotionHandler) ReconcileCallback(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ReconcileCallback(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetMyPromotions handles GET /api/v1/promotions/mine.
func (h *PromotionHandler) GetMyPromotions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.GetMyPromotions(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
