// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront/internal/app"
	"github.com/your-org/storefront/internal/interfaces/http/handlers"
)

// SetupRoutes registers every API route on rg
func SetupRoutes(rg *gin.RouterGroup, a *app.App, quotes handlers.QuoteRenderer) {
	catalogHandler := handlers.NewCatalogHandler(a.Catalog)
	cartHandler := handlers.NewCartHandler(a.Registry(), a.Catalog, a.Promos, quotes, a.Logger.WithField("component", "cart"))

	SetupProductRoutes(rg, catalogHandler)
	SetupBrandRoutes(rg, catalogHandler)
	SetupCategoryRoutes(rg, catalogHandler)
	SetupCartRoutes(rg, cartHandler)

	rg.GET("/highlights", catalogHandler.GetHighlights)
}

// SetupProductRoutes sets up product related routes
func SetupProductRoutes(rg *gin.RouterGroup, h *handlers.CatalogHandler) {
	products := rg.Group("/products")
	{
		products.GET("", h.GetProducts)
		products.GET("/:id", h.GetProduct)
		products.GET("/:id/related", h.GetRelatedProducts)
		products.GET("/:id/reviews", h.GetProductReviews)
	}
}

// SetupBrandRoutes sets up brand related routes
func SetupBrandRoutes(rg *gin.RouterGroup, h *handlers.CatalogHandler) {
	brands := rg.Group("/brands")
	{
		brands.GET("", h.GetBrands)
		brands.GET("/:slug", h.GetBrand)
		brands.GET("/:slug/products", h.GetBrandProducts)
	}
}

// SetupCategoryRoutes sets up category related routes
func SetupCategoryRoutes(rg *gin.RouterGroup, h *handlers.CatalogHandler) {
	categories := rg.Group("/categories")
	{
		categories.GET("", h.GetCategories)
		categories.GET("/:slug", h.GetCategory)
		categories.GET("/:slug/products", h.GetCategoryProducts)
	}
}

// SetupCartRoutes sets up cart routes; carts are keyed by the session cookie
func SetupCartRoutes(rg *gin.RouterGroup, h *handlers.CartHandler) {
	cart := rg.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.DELETE("", h.ClearCart)
		cart.GET("/count", h.GetCartCount)
		cart.POST("/items", h.AddToCart)
		cart.PUT("/items/:id", h.UpdateCartItem)
		cart.DELETE("/items/:id", h.RemoveFromCart)
		cart.PUT("/visibility", h.SetVisibility)
		cart.POST("/quote", h.QuoteCart)
		cart.GET("/quote.pdf", h.DownloadQuote)
	}
}
