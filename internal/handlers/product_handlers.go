package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/nativesins/shop-api/internal/store"
)

// CreateProductInput defines the JSON for a new catalog entry. Sized
// products (t-shirts) use the three per-size counters; everything else uses
// oneSizeStock.
type CreateProductInput struct {
	Category     string  `json:"category" binding:"required,oneof=tshirt hat cd other"`
	Name         string  `json:"name" binding:"required"`
	Price        float64 `json:"price" binding:"required,gt=0"`
	Description  string  `json:"description" binding:"required"`
	OneSizeStock int     `json:"oneSizeStock" binding:"gte=0"`
	SmallStock   int     `json:"smallStock" binding:"gte=0"`
	MediumStock  int     `json:"mediumStock" binding:"gte=0"`
	LargeStock   int     `json:"largeStock" binding:"gte=0"`
}

// CreateProduct is the handler for POST /v1/staff/products.
func (h *Handlers) CreateProduct(c *gin.Context) {
	var input CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.Catalog.CreateProduct(c, store.CreateProductParams{
		Category:     input.Category,
		Name:         input.Name,
		Price:        decimal.NewFromFloat(input.Price).Round(2),
		Description:  input.Description,
		OneSizeStock: input.OneSizeStock,
		SmallStock:   input.SmallStock,
		MediumStock:  input.MediumStock,
		LargeStock:   input.LargeStock,
	})
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created",
		"product": product,
	})
}

// ListProducts is the handler for GET /v1/products. Accepts
// ?sort=name|price_asc|price_desc, defaulting to name.
func (h *Handlers) ListProducts(c *gin.Context) {
	products, err := h.Catalog.ListProducts(c, c.Query("sort"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProduct is the handler for GET /v1/products/:id.
func (h *Handlers) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	product, err := h.Catalog.GetProduct(c, id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct is the handler for DELETE /v1/staff/products/:id.
func (h *Handlers) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	if err := h.Catalog.DeleteProduct(c, id); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
