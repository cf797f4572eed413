// internal/handlers/cart.go
package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uzagro/storefront/internal/catalog"
	"github.com/uzagro/storefront/internal/session"
	"github.com/uzagro/storefront/internal/store"
	"github.com/uzagro/storefront/internal/utils"
)

type CartHandler struct {
	sessions *session.Manager
	catalog  catalog.Source
}

func NewCartHandler(sessions *session.Manager, catalogSource catalog.Source) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		catalog:  catalogSource,
	}
}

type AddCartItemRequest struct {
	Slug     string `json:"slug" validate:"required,slug"`
	Quantity int    `json:"quantity" validate:"omitempty,min=1"`
}

type UpdateQuantityRequest struct {
	// Pointer so zero is distinguishable from absent; zero or negative
	// removes the line.
	Quantity *int `json:"quantity" validate:"required"`
}

type ToggleRequest struct {
	Open *bool `json:"open"`
}

func cartPayload(cart *store.Cart) gin.H {
	return gin.H{
		"items":   cart.Items(),
		"total":   cart.Total(),
		"is_open": cart.IsOpen(),
	}
}

// GET /v1/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	cart, _ := h.stores(c)
	if cart == nil {
		return
	}

	utils.SuccessResponse(c, gin.H{"cart": cartPayload(cart)})
}

// POST /v1/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	cart, _ := h.stores(c)
	if cart == nil {
		return
	}

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	product, err := h.catalog.GetProductBySlug(c.Request.Context(), req.Slug)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			utils.NotFoundResponse(c, "Product not found")
			return
		}
		utils.InternalErrorResponse(c, "Catalog is unavailable")
		return
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	cart.AddItem(*product, quantity)

	utils.CreatedResponse(c, gin.H{"cart": cartPayload(cart)})
}

// PATCH /v1/cart/items/:id
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	cart, _ := h.stores(c)
	if cart == nil {
		return
	}

	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	cart.UpdateQuantity(productID, *req.Quantity)

	utils.SuccessResponse(c, gin.H{"cart": cartPayload(cart)})
}

// DELETE /v1/cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	cart, _ := h.stores(c)
	if cart == nil {
		return
	}

	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	cart.RemoveItem(productID)

	utils.SuccessResponse(c, gin.H{"cart": cartPayload(cart)})
}

// DELETE /v1/cart
func (h *CartHandler) Clear(c *gin.Context) {
	cart, _ := h.stores(c)
	if cart == nil {
		return
	}

	cart.Clear()

	utils.SuccessResponse(c, gin.H{"cart": cartPayload(cart)})
}

// POST /v1/cart/toggle
func (h *CartHandler) Toggle(c *gin.Context) {
	cart, _ := h.stores(c)
	if cart == nil {
		return
	}

	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if req.Open != nil {
		cart.ToggleOpen(*req.Open)
	} else {
		cart.ToggleOpen()
	}

	utils.SuccessResponse(c, gin.H{"cart": cartPayload(cart)})
}

func (h *CartHandler) stores(c *gin.Context) (*store.Cart, *store.Compare) {
	sessionID, exists := utils.GetSessionIDFromContext(c)
	if !exists {
		utils.InternalErrorResponse(c, "Session is not initialized")
		return nil, nil
	}
	return h.sessions.Stores(sessionID)
}

func parseProductID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return 0, false
	}
	return id, true
}
