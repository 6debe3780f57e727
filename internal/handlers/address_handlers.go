package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// AddAddressInput defines the JSON for a new address. ResumeToken is the
// optional one-shot marker handed out by checkout when the order had no
// shipping address yet.
type AddAddressInput struct {
	Line1       string `json:"line1" binding:"required"`
	Line2       string `json:"line2"`
	Town        string `json:"town" binding:"required"`
	City        string `json:"city" binding:"required"`
	Postcode    string `json:"postcode" binding:"required"`
	ResumeToken string `json:"resumeToken"`
}

// AddAddress is the handler for POST /v1/addresses. When a valid resume
// token accompanies the new address, it is consumed, the address is bound
// to the open order, and the response tells the client to return to
// checkout.
func (h *Handlers) AddAddress(c *gin.Context) {
	userID := currentUserID(c)

	var input AddAddressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	address, err := h.Addresses.AddAddress(c, userID, input.Line1, input.Line2, input.Town, input.City, input.Postcode)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	resumeCheckout := false
	if input.ResumeToken != "" {
		// One-shot: an already-consumed or foreign token is simply ignored.
		if err := h.Checkout.ConsumeResumeToken(c, userID, input.ResumeToken); err == nil {
			resumeCheckout = true
			if order, err := h.Orders.FindCurrentOrder(c, userID); err == nil {
				if err := h.Orders.BindAddress(c, userID, order.ID, address.ID); err != nil {
					respondStoreError(c, err)
					return
				}
			}
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Address added",
		"address":        address,
		"resumeCheckout": resumeCheckout,
	})
}

// ListAddresses is the handler for GET /v1/addresses.
func (h *Handlers) ListAddresses(c *gin.Context) {
	addresses, err := h.Addresses.ListAddresses(c, currentUserID(c))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"addresses": addresses})
}

// ChangeDefaultAddress is the handler for PATCH /v1/addresses/:id/default.
func (h *Handlers) ChangeDefaultAddress(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address id"})
		return
	}

	if err := h.Addresses.ChangeDefault(c, currentUserID(c), id); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Default address updated"})
}

// DeleteAddress is the handler for DELETE /v1/addresses/:id.
func (h *Handlers) DeleteAddress(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address id"})
		return
	}

	if err := h.Addresses.DeleteAddress(c, currentUserID(c), id); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Address removed"})
}
