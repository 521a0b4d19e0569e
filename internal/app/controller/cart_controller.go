package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/service"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Variant   string `json:"variant"`
	Quantity  *int   `json:"quantity"`
}

type UpdateCartRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (ctrl *CartController) sessionID(c *gin.Context) (string, bool) {
	session := middleware.GetSessionID(c)
	if session == "" {
		middleware.GetLoggerFromContext(c).Warn("Cart request without a session")
		apperrors.BadRequest(c, apperrors.CartSessionRequired, "A cart session is required")
		return "", false
	}
	return session, true
}

// GetCart returns the session's cart
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	session, ok := ctrl.sessionID(c)
	if !ok {
		return
	}

	cart, err := ctrl.cartService.GetCart(c.Request.Context(), session)
	if err != nil {
		log.Error("Failed to fetch cart", err)
		apperrors.ParseAndRespond(c, err, "load the cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart": cart,
	})
}

// AddToCart adds a catalog product to the cart. Quantity defaults to 1.
// POST /api/v1/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	session, ok := ctrl.sessionID(c)
	if !ok {
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"error": err.Error(),
		})
		respondBindingError(c, err)
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	result, err := ctrl.cartService.AddProduct(c.Request.Context(), session, req.ProductID, req.Variant, quantity)
	if err != nil {
		log.Warn("Failed to add to cart", map[string]interface{}{
			"product_id": req.ProductID,
			"error":      err.Error(),
		})
		apperrors.ParseAndRespond(c, err, "add the item to the cart")
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateQuantity sets a line's quantity. Zero or less removes the line.
// PUT /api/v1/cart/items/:productId
func (ctrl *CartController) UpdateQuantity(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	session, ok := ctrl.sessionID(c)
	if !ok {
		return
	}
	productID := c.Param("productId")

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update cart request", map[string]interface{}{
			"product_id": productID,
			"error":      err.Error(),
		})
		respondBindingError(c, err)
		return
	}

	result, err := ctrl.cartService.UpdateQuantity(c.Request.Context(), session, productID, *req.Quantity)
	if err != nil {
		log.Error("Failed to update cart", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.ParseAndRespond(c, err, "update the cart")
		return
	}

	c.JSON(http.StatusOK, result)
}

// RemoveItem
// DELETE /api/v1/cart/items/:productId
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	session, ok := ctrl.sessionID(c)
	if !ok {
		return
	}
	productID := c.Param("productId")

	result, err := ctrl.cartService.RemoveItem(c.Request.Context(), session, productID)
	if err != nil {
		log.Error("Failed to remove cart item", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.ParseAndRespond(c, err, "remove the item")
		return
	}

	c.JSON(http.StatusOK, result)
}

// ClearCart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	session, ok := ctrl.sessionID(c)
	if !ok {
		return
	}

	result, err := ctrl.cartService.ClearCart(c.Request.Context(), session)
	if err != nil {
		log.Error("Failed to clear cart", err)
		apperrors.ParseAndRespond(c, err, "clear the cart")
		return
	}

	c.JSON(http.StatusOK, result)
}

func respondBindingError(c *gin.Context, err error) {
	if fields, ok := apperrors.ValidationFields(err); ok {
		apperrors.RespondWithValidationError(c, fields)
		return
	}
	apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
}
