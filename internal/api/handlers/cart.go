package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/edustore/storefront/internal/api/middleware"
	"github.com/edustore/storefront/internal/cart"
	"github.com/edustore/storefront/internal/domain"
	"github.com/edustore/storefront/pkg/errors"
)

// AddItemRequest represents the add-to-cart payload
type AddItemRequest struct {
	ID           string          `json:"id" binding:"required"`
	Title        string          `json:"title" binding:"required"`
	Description  string          `json:"description"`
	Price        int64           `json:"price" binding:"min=0"`
	Quantity     int             `json:"quantity"`
	Type         domain.ItemType `json:"type" binding:"required"`
	ThumbnailURL string          `json:"thumbnail_url"`
}

// UpdateQuantityRequest represents the quantity update payload
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SetOpenRequest represents the drawer visibility payload
type SetOpenRequest struct {
	Open bool `json:"open"`
}

// CartResponse represents the cart with its derived totals
type CartResponse struct {
	Items    []domain.CartItem `json:"items"`
	IsOpen   bool              `json:"is_open"`
	Count    int               `json:"count"`
	Subtotal int64             `json:"subtotal"`
	Total    int64             `json:"total"`
}

func cartResponse(state cart.State) CartResponse {
	return CartResponse{
		Items:    state.Items,
		IsOpen:   state.IsOpen,
		Count:    state.Count(),
		Subtotal: state.Subtotal(),
		Total:    state.Total(),
	}
}

// HandleGetCart handles GET /v1/cart
func HandleGetCart(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := middleware.GetSession(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}

		c.JSON(http.StatusOK, cartResponse(s.Cart.State()))
	}
}

// HandleAddItem handles POST /v1/cart/items
func HandleAddItem(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := middleware.GetSession(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}

		var req AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}
		if !req.Type.IsValid() {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid item type"})
			return
		}

		state := s.Cart.Dispatch(cart.AddItem{
			Item: domain.CartItem{
				ID:           req.ID,
				Title:        req.Title,
				Description:  req.Description,
				Price:        req.Price,
				Type:         req.Type,
				ThumbnailURL: req.ThumbnailURL,
			},
			Quantity: req.Quantity,
		})

		c.JSON(http.StatusOK, cartResponse(state))
	}
}

// HandleUpdateQuantity handles PATCH /v1/cart/items/:id
func HandleUpdateQuantity(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := middleware.GetSession(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}

		var req UpdateQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		id := c.Param("id")
		if !s.Cart.Has(id) {
			notFound := &errors.ErrNotFound{Resource: "cart item", ID: id}
			c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
			return
		}

		state := s.Cart.Dispatch(cart.UpdateQuantity{
			ID:       id,
			Quantity: req.Quantity,
		})

		c.JSON(http.StatusOK, cartResponse(state))
	}
}

// HandleRemoveItem handles DELETE /v1/cart/items/:id
func HandleRemoveItem(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := middleware.GetSession(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}

		id := c.Param("id")
		if !s.Cart.Has(id) {
			notFound := &errors.ErrNotFound{Resource: "cart item", ID: id}
			c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
			return
		}

		state := s.Cart.Dispatch(cart.RemoveItem{ID: id})
		c.JSON(http.StatusOK, cartResponse(state))
	}
}

// HandleClearCart handles DELETE /v1/cart
func HandleClearCart(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := middleware.GetSession(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}

		s.Cart.Clear()
		c.JSON(http.StatusOK, cartResponse(s.Cart.State()))
	}
}

// HandleSetOpen handles POST /v1/cart/open
func HandleSetOpen(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := middleware.GetSession(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}

		var req SetOpenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		state := s.Cart.Dispatch(cart.SetOpen{Open: req.Open})
		c.JSON(http.StatusOK, cartResponse(state))
	}
}

// HandleToggleOpen handles POST /v1/cart/toggle
func HandleToggleOpen(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := middleware.GetSession(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}

		state := s.Cart.Dispatch(cart.ToggleOpen{})
		c.JSON(http.StatusOK, cartResponse(state))
	}
}
