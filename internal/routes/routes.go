package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nativesins/shop-api/internal/handlers"
	"github.com/nativesins/shop-api/internal/middleware"
	"github.com/nativesins/shop-api/internal/models"
)

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	v1 := router.Group("/v1")
	{
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Auth Routes (Public) ---
		v1.POST("/register", h.Register)
		v1.POST("/login", h.Login)

		// --- Public Catalog Routes ---
		v1.GET("/products", h.ListProducts)
		v1.GET("/products/:id", h.GetProduct)
		v1.GET("/shipping-options", h.ListShippingOptions)

		// --- Protected Routes (Login Required) ---
		auth := v1.Group("/")
		auth.Use(middleware.AuthMiddleware())
		{
			auth.GET("/profile/me", h.GetProfile)
			auth.PUT("/profile/me", h.UpdateProfile)
			auth.POST("/profile/password", h.ResetPassword)

			// --- Address Book ---
			auth.GET("/addresses", h.ListAddresses)
			auth.POST("/addresses", h.AddAddress)
			auth.PATCH("/addresses/:id/default", h.ChangeDefaultAddress)
			auth.DELETE("/addresses/:id", h.DeleteAddress)

			// --- Basket ---
			auth.GET("/basket", h.GetBasket)
			auth.POST("/basket/items", h.AddToBasket)
			auth.PUT("/basket/items/:line_id", h.UpdateBasketItem)
			auth.DELETE("/basket/items/:line_id", h.RemoveBasketItem)
			auth.POST("/basket/address", h.BindBasketAddress)
			auth.POST("/basket/shipping", h.SetBasketShipping)

			// --- Checkout & Orders ---
			auth.GET("/checkout", h.GetCheckout)
			auth.POST("/checkout", h.PlaceOrder)
			auth.GET("/orders", h.ListOrders)
			auth.GET("/orders/:id", h.GetOrderDetails)
		}

		// --- Staff-Only Routes ---
		staff := v1.Group("/staff")
		staff.Use(middleware.AuthMiddleware())
		staff.Use(middleware.RequireRole(h.DB, models.RoleStaff, models.RoleAdmin))
		{
			staff.POST("/products", h.CreateProduct)
			staff.DELETE("/products/:id", h.DeleteProduct)
		}

		// --- Admin-Only Routes ---
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware())
		admin.Use(middleware.RequireRole(h.DB, models.RoleAdmin))
		{
			admin.POST("/users", h.CreateUser)
		}
	}

	return router
}
