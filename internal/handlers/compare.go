// internal/handlers/compare.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/uzagro/storefront/internal/catalog"
	"github.com/uzagro/storefront/internal/models"
	"github.com/uzagro/storefront/internal/session"
	"github.com/uzagro/storefront/internal/store"
	"github.com/uzagro/storefront/internal/utils"
)

type CompareHandler struct {
	sessions *session.Manager
	catalog  catalog.Source
}

func NewCompareHandler(sessions *session.Manager, catalogSource catalog.Source) *CompareHandler {
	return &CompareHandler{
		sessions: sessions,
		catalog:  catalogSource,
	}
}

type AddCompareItemRequest struct {
	Slug string `json:"slug" validate:"required,slug"`
}

func comparePayload(compare *store.Compare) gin.H {
	return gin.H{
		"items":    compare.Items(),
		"is_open":  compare.IsOpen(),
		"capacity": store.CompareCapacity,
	}
}

// GET /v1/compare
func (h *CompareHandler) GetCompare(c *gin.Context) {
	compare := h.compareStore(c)
	if compare == nil {
		return
	}

	utils.SuccessResponse(c, gin.H{"compare": comparePayload(compare)})
}

// POST /v1/compare/items
func (h *CompareHandler) AddItem(c *gin.Context) {
	compare := h.compareStore(c)
	if compare == nil {
		return
	}

	product, ok := h.fetchProduct(c)
	if !ok {
		return
	}

	result := compare.AddItem(*product)
	if result == store.CapacityExceeded {
		utils.ConflictResponse(c, "COMPARE_FULL", "Comparison list is full", gin.H{
			"capacity": store.CompareCapacity,
		})
		return
	}

	utils.CreatedResponse(c, gin.H{
		"result":  result,
		"compare": comparePayload(compare),
	})
}

// POST /v1/compare/toggle-item
func (h *CompareHandler) ToggleItem(c *gin.Context) {
	compare := h.compareStore(c)
	if compare == nil {
		return
	}

	product, ok := h.fetchProduct(c)
	if !ok {
		return
	}

	result := compare.Toggle(*product)
	if result == store.CapacityExceeded {
		utils.ConflictResponse(c, "COMPARE_FULL", "Comparison list is full", gin.H{
			"capacity": store.CompareCapacity,
		})
		return
	}

	utils.SuccessResponse(c, gin.H{
		"result":  result,
		"compare": comparePayload(compare),
	})
}

// DELETE /v1/compare/items/:id
func (h *CompareHandler) RemoveItem(c *gin.Context) {
	compare := h.compareStore(c)
	if compare == nil {
		return
	}

	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	compare.RemoveItem(productID)

	utils.SuccessResponse(c, gin.H{"compare": comparePayload(compare)})
}

// DELETE /v1/compare
func (h *CompareHandler) Clear(c *gin.Context) {
	compare := h.compareStore(c)
	if compare == nil {
		return
	}

	compare.Clear()

	utils.SuccessResponse(c, gin.H{"compare": comparePayload(compare)})
}

// POST /v1/compare/toggle
func (h *CompareHandler) Toggle(c *gin.Context) {
	compare := h.compareStore(c)
	if compare == nil {
		return
	}

	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if req.Open != nil {
		compare.ToggleOpen(*req.Open)
	} else {
		compare.ToggleOpen()
	}

	utils.SuccessResponse(c, gin.H{"compare": comparePayload(compare)})
}

func (h *CompareHandler) compareStore(c *gin.Context) *store.Compare {
	sessionID, exists := utils.GetSessionIDFromContext(c)
	if !exists {
		utils.InternalErrorResponse(c, "Session is not initialized")
		return nil
	}
	_, compare := h.sessions.Stores(sessionID)
	return compare
}

func (h *CompareHandler) fetchProduct(c *gin.Context) (*models.Product, bool) {
	var req AddCompareItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return nil, false
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return nil, false
	}

	product, err := h.catalog.GetProductBySlug(c.Request.Context(), req.Slug)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			utils.NotFoundResponse(c, "Product not found")
			return nil, false
		}
		utils.InternalErrorResponse(c, "Catalog is unavailable")
		return nil, false
	}

	return product, true
}
