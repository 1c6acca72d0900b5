// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront/internal/domain/catalog"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// CatalogHandler handles product, brand and category endpoints
type CatalogHandler struct {
	catalog *catalog.Service
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(svc *catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalog: svc}
}

// ListingQuery holds the non-dimension listing parameters
type ListingQuery struct {
	MinPrice *float64 `form:"min_price" binding:"omitempty,gte=0"`
	MaxPrice *float64 `form:"max_price" binding:"omitempty,gte=0"`
	Query    string   `form:"q"`
	Sort     string   `form:"sort"`
	Page     int      `form:"page"`
	Limit    int      `form:"limit"`
}

// GetProducts handles GET /products
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	criteria, req, ok := parseListing(c, catalog.ProductsPage)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data":    h.catalog.List(catalog.ProductsPage, criteria, req),
	})
}

// GetProduct handles GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	product, err := h.catalog.Product(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    product,
	})
}

// GetRelatedProducts handles GET /products/:id/related
func (h *CatalogHandler) GetRelatedProducts(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "4"))

	related, err := h.catalog.Related(id, limit)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Related products retrieved successfully",
		"data":    related,
	})
}

// GetProductReviews handles GET /products/:id/reviews
func (h *CatalogHandler) GetProductReviews(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	reviews, err := h.catalog.Reviews(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reviews retrieved successfully",
		"data":    reviews,
	})
}

// GetBrands handles GET /brands
func (h *CatalogHandler) GetBrands(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Brands retrieved successfully",
		"data":    h.catalog.Brands(),
	})
}

// GetBrand handles GET /brands/:slug
func (h *CatalogHandler) GetBrand(c *gin.Context) {
	brand, err := h.catalog.Brand(c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Brand not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Brand retrieved successfully",
		"data":    brand,
	})
}

// GetBrandProducts handles GET /brands/:slug/products
func (h *CatalogHandler) GetBrandProducts(c *gin.Context) {
	criteria, req, ok := parseListing(c, catalog.BrandPage)
	if !ok {
		return
	}

	listing, err := h.catalog.BrandListing(c.Param("slug"), criteria, req)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Brand not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Brand products retrieved successfully",
		"data":    listing,
	})
}

// GetCategories handles GET /categories
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Categories retrieved successfully",
		"data":    h.catalog.Categories(),
	})
}

// GetCategory handles GET /categories/:slug
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	category, err := h.catalog.Category(c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Category not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category retrieved successfully",
		"data":    category,
	})
}

// GetCategoryProducts handles GET /categories/:slug/products
func (h *CatalogHandler) GetCategoryProducts(c *gin.Context) {
	criteria, req, ok := parseListing(c, catalog.CategoryPage)
	if !ok {
		return
	}

	listing, err := h.catalog.CategoryListing(c.Param("slug"), criteria, req)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Category not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category products retrieved successfully",
		"data":    listing,
	})
}

// GetHighlights handles GET /highlights
func (h *CatalogHandler) GetHighlights(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Highlights retrieved successfully",
		"data":    h.catalog.Highlights(),
	})
}

// parseListing reads the page's dimension selections, price range, search,
// sort and pagination from the query string. It writes a 400 and returns
// false when the parameters are malformed.
func parseListing(c *gin.Context, page catalog.Page) (catalog.Criteria, catalog.PageRequest, bool) {
	var q ListingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return catalog.Criteria{}, catalog.PageRequest{}, false
	}

	criteria := catalog.Criteria{
		Query: q.Query,
		Sort:  catalog.ParseSortKey(q.Sort),
	}
	for _, name := range page.DimensionNames() {
		if values := queryValues(c, name); len(values) > 0 {
			criteria = criteria.Select(name, values...)
		}
	}

	if q.MinPrice != nil || q.MaxPrice != nil {
		r := catalog.PriceRange{Min: 0, Max: math.MaxFloat64}
		if q.MinPrice != nil {
			r.Min = *q.MinPrice
		}
		if q.MaxPrice != nil {
			r.Max = *q.MaxPrice
		}
		if r.Min > r.Max {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "min_price must not exceed max_price",
			})
			return catalog.Criteria{}, catalog.PageRequest{}, false
		}
		criteria.PriceRange = &r
	}

	// Set default values
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > maxPageLimit {
		q.Limit = defaultPageLimit
	}

	return criteria, catalog.PageRequest{Page: q.Page, Limit: q.Limit}, true
}

// queryValues accepts both ?color=red&color=blue and ?color=red,blue
func queryValues(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func productID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return 0, false
	}
	return id, true
}
