// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/pkg/pdf"
)

const sessionCookie = "session_id"

// QuoteRenderer turns a priced cart into a printable document
type QuoteRenderer interface {
	NewQuoteData(items []cart.LineItem, quote cart.Quote) pdf.QuoteData
	GenerateQuote(data pdf.QuoteData) (*bytes.Buffer, error)
}

// CartHandler handles cart endpoints
type CartHandler struct {
	carts   *cart.Registry
	catalog *catalog.Service
	promos  *cart.PromoBook
	quotes  QuoteRenderer
	logger  logrus.FieldLogger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *cart.Registry, svc *catalog.Service, promos *cart.PromoBook, quotes QuoteRenderer, logger logrus.FieldLogger) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: svc,
		promos:  promos,
		quotes:  quotes,
		logger:  logger,
	}
}

// AddToCartRequest represents the add-to-cart payload
type AddToCartRequest struct {
	ProductID int    `json:"productId" binding:"required,gt=0"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity" binding:"omitempty,gte=1"`
}

// UpdateCartItemRequest represents the quantity change payload; 0 removes the line
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,gte=0"`
}

// VisibilityRequest opens or closes the cart drawer; an omitted value toggles it
type VisibilityRequest struct {
	Open *bool `json:"open"`
}

// QuoteRequest asks for totals with a promo code applied
type QuoteRequest struct {
	PromoCode string `json:"promoCode"`
}

// CartResponse is the cart state plus its derived summary
type CartResponse struct {
	Items   []cart.LineItem `json:"items"`
	IsOpen  bool            `json:"isOpen"`
	Summary cart.Summary    `json:"summary"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	store := h.store(c)

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    h.response(store.State()),
	})
}

// GetCartCount handles GET /cart/count
func (h *CartHandler) GetCartCount(c *gin.Context) {
	store := h.store(c)

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart count retrieved successfully",
		"data": gin.H{
			"count": store.Summary().ItemCount,
		},
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	product, err := h.catalog.Product(req.ProductID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	store := h.store(c)
	if cart.AvailableStock(product, store.Rules()) <= 0 {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Product is out of stock",
		})
		return
	}

	state := store.AddToCart(c.Request.Context(), *product, req.Size, req.Color, req.Quantity)

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    h.response(state),
	})
}

// UpdateCartItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	store := h.store(c)
	id := c.Param("id")
	if _, ok := store.State().Find(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Cart item not found",
		})
		return
	}

	state := store.UpdateQuantity(c.Request.Context(), id, *req.Quantity)

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    h.response(state),
	})
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	store := h.store(c)
	id := c.Param("id")
	if _, ok := store.State().Find(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Cart item not found",
		})
		return
	}

	state := store.RemoveFromCart(c.Request.Context(), id)

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    h.response(state),
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	h.store(c).ClearCart(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

// SetVisibility handles PUT /cart/visibility
func (h *CartHandler) SetVisibility(c *gin.Context) {
	var req VisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	store := h.store(c)
	ctx := c.Request.Context()

	var state cart.State
	switch {
	case req.Open == nil:
		state = store.Toggle(ctx)
	case *req.Open:
		state = store.Open(ctx)
	default:
		state = store.Close(ctx)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart visibility updated successfully",
		"data":    h.response(state),
	})
}

// QuoteCart handles POST /cart/quote
func (h *CartHandler) QuoteCart(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	store := h.store(c)
	quote, err := h.promos.Quote(store.State().Items, store.Rules(), req.PromoCode)
	if errors.Is(err, cart.ErrInvalidPromoCode) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid promo code",
			"data":  quote,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart quote calculated successfully",
		"data":    quote,
	})
}

// DownloadQuote handles GET /cart/quote.pdf
func (h *CartHandler) DownloadQuote(c *gin.Context) {
	store := h.store(c)
	items := store.State().Items

	quote, err := h.promos.Quote(items, store.Rules(), c.Query("promo"))
	if errors.Is(err, cart.ErrInvalidPromoCode) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid promo code",
		})
		return
	}

	data := h.quotes.NewQuoteData(items, quote)
	pdfBuffer, err := h.quotes.GenerateQuote(data)
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate quote")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate quote",
		})
		return
	}

	// Set headers for PDF download
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=quote-%s.pdf", data.QuoteNumber))
	c.Header("Content-Length", strconv.Itoa(pdfBuffer.Len()))

	c.Data(http.StatusOK, "application/pdf", pdfBuffer.Bytes())
}

func (h *CartHandler) store(c *gin.Context) *cart.Store {
	return h.carts.Get(c.Request.Context(), getOrCreateSessionID(c))
}

func (h *CartHandler) response(state cart.State) CartResponse {
	if state.Items == nil {
		state.Items = []cart.LineItem{}
	}
	return CartResponse{
		Items:   state.Items,
		IsOpen:  state.IsOpen,
		Summary: cart.ComputeSummary(state.Items, h.carts.Rules()),
	}
}

// getOrCreateSessionID gets session ID from cookie or creates a new one
func getOrCreateSessionID(c *gin.Context) string {
	sessionID, err := c.Cookie(sessionCookie)
	if err != nil || sessionID == "" {
		sessionID = uuid.New().String()

		// Set session cookie (24 hours)
		c.SetCookie(sessionCookie, sessionID, 86400, "/", "", false, true)
	}

	return sessionID
}
