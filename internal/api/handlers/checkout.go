package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/edustore/storefront/internal/api/middleware"
	"github.com/edustore/storefront/internal/checkout"
	"github.com/edustore/storefront/internal/domain"
	"github.com/edustore/storefront/internal/gateway"
	"github.com/edustore/storefront/internal/session"
	"github.com/edustore/storefront/pkg/errors"
)

// SubmitCustomerRequest represents the step-one payload
type SubmitCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	TaxID string `json:"tax_id"`
	Phone string `json:"phone"`
}

// SubmitPaymentRequest represents the step-two payload
type SubmitPaymentRequest struct {
	PaymentMethod domain.PaymentMethod `json:"payment_method" binding:"required"`
	CreditCard    *domain.CreditCard   `json:"credit_card,omitempty"`
	Installments  int                  `json:"installments"`
}

// HandleSubmitCustomer handles POST /v1/checkout/customer
func HandleSubmitCustomer(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := middleware.GetSession(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}

		var req SubmitCustomerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		err := s.Checkout.SubmitCustomer(domain.Customer{
			Name:  req.Name,
			Email: req.Email,
			TaxID: req.TaxID,
			Phone: req.Phone,
		})
		if err != nil {
			if vErr, ok := err.(*errors.ErrValidation); ok {
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"error":  "validation failed",
					"fields": vErr.Fields,
					"step":   s.Checkout.Step(),
				})
				return
			}
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"step": s.Checkout.Step()})
	}
}

// HandleSubmitPayment handles POST /v1/checkout/payment
func HandleSubmitPayment(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := middleware.GetSession(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}

		var req SubmitPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		result, err := s.Checkout.SubmitPayment(
			c.Request.Context(),
			req.PaymentMethod,
			req.CreditCard,
			req.Installments,
		)
		if err != nil {
			switch e := err.(type) {
			case *errors.ErrValidation:
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"error":  "validation failed",
					"fields": e.Fields,
					"step":   s.Checkout.Step(),
				})
			case *errors.ErrSubmissionInFlight:
				c.JSON(http.StatusConflict, gin.H{"error": e.Error()})
			case *errors.ErrInvalidStateTransition:
				c.JSON(http.StatusConflict, gin.H{"error": e.Error()})
			case *gateway.APIError:
				// the visitor may resubmit; nothing retries automatically
				logger.Error("Checkout submission failed", zap.Error(err))
				c.JSON(http.StatusBadGateway, gin.H{
					"error": e.Message,
					"step":  s.Checkout.Step(),
				})
			default:
				logger.Error("Checkout submission failed", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			}
			return
		}

		c.JSON(http.StatusOK, resultBody(s, result))
	}
}

// HandleCheckoutResult handles GET /v1/checkout/result
func HandleCheckoutResult(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := middleware.GetSession(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}

		result := s.Checkout.Result()
		if result == nil {
			c.JSON(http.StatusOK, gin.H{"step": s.Checkout.Step()})
			return
		}

		c.JSON(http.StatusOK, resultBody(s, result))
	}
}

// HandleInstallments handles GET /v1/checkout/installments
func HandleInstallments(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := middleware.GetSession(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}

		options := make([]gin.H, 0, checkout.MaxInstallments)
		for n := 1; n <= checkout.MaxInstallments; n++ {
			amount, err := s.Checkout.InstallmentAmount(n)
			if err != nil {
				logger.Error("Failed to compute installment amount", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
				return
			}
			options = append(options, gin.H{"installments": n, "amount": amount})
		}

		c.JSON(http.StatusOK, gin.H{"options": options})
	}
}

// HandleCloseCheckout handles DELETE /v1/checkout
func HandleCloseCheckout(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := middleware.GetSession(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}

		s.Checkout.Close()
		c.JSON(http.StatusOK, gin.H{"step": s.Checkout.Step()})
	}
}

// HandleCheckoutStatus handles GET /v1/checkout/status
func HandleCheckoutStatus(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := middleware.GetSession(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"step":        s.Checkout.Step(),
			"watch_state": s.Checkout.Watcher().State(),
		})
	}
}

// resultBody renders a payment result by its discriminant
func resultBody(s *session.Session, result domain.PaymentResult) gin.H {
	body := gin.H{
		"step":           domain.StepResult,
		"order_id":       result.OrderID(),
		"payment_method": result.Method(),
	}

	switch r := result.(type) {
	case domain.CreditCardResult:
		body["status"] = r.Status
	case domain.PixResult:
		body["pix"] = gin.H{
			"payload":         r.Payload,
			"qr_code_image":   r.QRCodeImage,
			"expiration_date": r.ExpirationDate,
		}
		body["watch_state"] = s.Checkout.Watcher().State()
	case domain.BoletoResult:
		body["boleto"] = gin.H{
			"url":     r.URL,
			"barcode": r.Barcode,
		}
		body["watch_state"] = s.Checkout.Watcher().State()
	}

	return body
}
