package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/nativesins/shop-api/internal/models"
	"github.com/nativesins/shop-api/internal/store"
)

// GetBasket is the handler for GET /v1/basket. A user with no open order
// gets an empty basket, not an error.
func (h *Handlers) GetBasket(c *gin.Context) {
	order, lines, err := h.Orders.Basket(c, currentUserID(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{
				"items":      []store.BasketLine{},
				"total":      decimal.Zero,
				"totalItems": 0,
			})
			return
		}
		respondStoreError(c, err)
		return
	}

	totalItems := 0
	for _, line := range lines {
		totalItems += line.Quantity
	}

	c.JSON(http.StatusOK, gin.H{
		"order":      order,
		"items":      lines,
		"total":      order.Total,
		"totalItems": totalItems,
	})
}

// AddToBasketInput defines the JSON for adding an item. Size is required
// for t-shirts and ignored for one-size products.
type AddToBasketInput struct {
	ProductID int64  `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	Size      string `json:"size" binding:"omitempty,oneof=small medium large"`
}

// AddToBasket is the handler for POST /v1/basket/items.
func (h *Handlers) AddToBasket(c *gin.Context) {
	var input AddToBasketInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.Orders.AddOrUpdateLine(c, currentUserID(c), input.ProductID, input.Quantity, input.Size)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Item added to basket",
		"order":   order,
	})
}

// UpdateBasketItemInput defines the JSON for updating a line's quantity.
// Zero means remove the line.
type UpdateBasketItemInput struct {
	Quantity int `json:"quantity" binding:"gte=0"`
}

// UpdateBasketItem is the handler for PUT /v1/basket/items/:line_id.
func (h *Handlers) UpdateBasketItem(c *gin.Context) {
	lineID, err := strconv.ParseInt(c.Param("line_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid line id"})
		return
	}

	var input UpdateBasketItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := currentUserID(c)
	if input.Quantity == 0 {
		if err := h.Orders.RemoveLine(c, userID, lineID); err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item removed"})
		return
	}

	if err := h.Orders.EditLineQuantity(c, userID, lineID, input.Quantity); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quantity updated"})
}

// RemoveBasketItem is the handler for DELETE /v1/basket/items/:line_id.
func (h *Handlers) RemoveBasketItem(c *gin.Context) {
	lineID, err := strconv.ParseInt(c.Param("line_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid line id"})
		return
	}

	if err := h.Orders.RemoveLine(c, currentUserID(c), lineID); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed"})
}

// BindAddressInput selects one of the user's addresses as the order's
// shipping destination.
type BindAddressInput struct {
	AddressID int64 `json:"addressId" binding:"required"`
}

// BindBasketAddress is the handler for POST /v1/basket/address.
func (h *Handlers) BindBasketAddress(c *gin.Context) {
	var input BindAddressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := currentUserID(c)
	order, err := h.Orders.FindCurrentOrder(c, userID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if err := h.Orders.BindAddress(c, userID, order.ID, input.AddressID); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shipping address set"})
}

// SetShippingInput selects a delivery option.
type SetShippingInput struct {
	Method string `json:"method" binding:"required"`
}

// SetBasketShipping is the handler for POST /v1/basket/shipping.
func (h *Handlers) SetBasketShipping(c *gin.Context) {
	var input SetShippingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := currentUserID(c)
	order, err := h.Orders.FindCurrentOrder(c, userID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if err := h.Orders.SetShippingMethod(c, userID, order.ID, input.Method); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shipping method set"})
}

// ListShippingOptions is the handler for GET /v1/shipping-options.
func (h *Handlers) ListShippingOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"options": models.ShippingOptions})
}
