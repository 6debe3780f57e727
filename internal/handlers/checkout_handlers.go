package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nativesins/shop-api/internal/store"
)

// GetCheckout is the handler for GET /v1/checkout. It runs the checkout
// preconditions: an empty basket answers "nothing to checkout"; a basket
// without a shipping address answers needsAddress together with a fresh
// one-shot resume token for the address flow.
func (h *Handlers) GetCheckout(c *gin.Context) {
	userID := currentUserID(c)

	order, err := h.Checkout.Preconditions(c, userID)
	if err != nil {
		if errors.Is(err, store.ErrNoAddress) {
			token, tokenErr := h.Checkout.IssueResumeToken(c, userID)
			if tokenErr != nil {
				respondStoreError(c, tokenErr)
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{
				"error":        "A shipping address is needed before checkout",
				"needsAddress": true,
				"resumeToken":  token,
			})
			return
		}
		respondStoreError(c, err)
		return
	}

	lines, err := h.Orders.Lines(c, userID, order.ID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order":      order,
		"items":      lines,
		"total":      order.Total,
		"grandTotal": store.GrandTotal(order),
	})
}

// PlaceOrderInput carries the card token minted by the client-side payment
// widget. The server never sees raw card numbers.
type PlaceOrderInput struct {
	CardToken string `json:"cardToken" binding:"required"`
}

// PlaceOrder is the handler for POST /v1/checkout.
func (h *Handlers) PlaceOrder(c *gin.Context) {
	var input PlaceOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.Checkout.PlaceOrder(c, currentUserID(c), input.CardToken)
	if err != nil {
		if errors.Is(err, store.ErrNoAddress) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":        "A shipping address is needed before checkout",
				"needsAddress": true,
			})
			return
		}
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed",
		"order":   order,
	})
}

// ListOrders is the handler for GET /v1/orders.
func (h *Handlers) ListOrders(c *gin.Context) {
	orders, err := h.Orders.ListOrders(c, currentUserID(c))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetOrderDetails is the handler for GET /v1/orders/:id. Another user's
// order id answers 404.
func (h *Handlers) GetOrderDetails(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	userID := currentUserID(c)
	order, err := h.Orders.GetOrder(c, userID, orderID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	lines, err := h.Orders.Lines(c, userID, order.ID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
		"items": lines,
	})
}
