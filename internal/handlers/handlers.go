package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nativesins/shop-api/internal/payment"
	"github.com/nativesins/shop-api/internal/store"
)

// Handlers holds every injected dependency the routes need.
type Handlers struct {
	DB        *sql.DB
	Accounts  *store.AccountStore
	Catalog   *store.CatalogStore
	Addresses *store.AddressBook
	Orders    *store.OrderEngine
	Checkout  *store.Checkout
}

// New wires the stores over one shared pool.
func New(db *sql.DB, gateway payment.Gateway, mailer store.Mailer) *Handlers {
	accounts := &store.AccountStore{DB: db}
	orders := &store.OrderEngine{DB: db}
	return &Handlers{
		DB:        db,
		Accounts:  accounts,
		Catalog:   &store.CatalogStore{DB: db},
		Addresses: &store.AddressBook{DB: db},
		Orders:    orders,
		Checkout: &store.Checkout{
			DB:       db,
			Orders:   orders,
			Accounts: accounts,
			Gateway:  gateway,
			Mailer:   mailer,
		},
	}
}

// currentUserID reads the authenticated user id set by the auth middleware.
func currentUserID(c *gin.Context) int64 {
	userIDRaw, _ := c.Get("userID")
	return userIDRaw.(int64)
}

// respondStoreError maps the store error taxonomy onto HTTP statuses.
// Anything unrecognised is a plain 500 with no internals leaked.
func respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, store.ErrDuplicateIdentity):
		c.JSON(http.StatusConflict, gin.H{"error": "Already exists"})
	case errors.Is(err, store.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": "Insufficient stock"})
	case errors.Is(err, store.ErrInvalidSize):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid size"})
	case errors.Is(err, store.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be at least 1"})
	case errors.Is(err, store.ErrInvalidShipping):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown shipping option"})
	case errors.Is(err, store.ErrEmptyOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to checkout"})
	case errors.Is(err, store.ErrPaymentFailed):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Payment failed, you have not been charged. Please try again."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
