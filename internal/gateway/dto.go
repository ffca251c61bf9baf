package gateway

import (
	"time"

	"github.com/edustore/storefront/internal/domain"
)

// LineItem describes one purchasable unit in a checkout submission
type LineItem struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Price    int64           `json:"price"`
	Quantity int             `json:"quantity"`
	Type     domain.ItemType `json:"type"`
}

// CheckoutRequest is the payment-initiation payload
type CheckoutRequest struct {
	Items         []LineItem           `json:"items"`
	Customer      domain.Customer      `json:"customer"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	CreditCard    *domain.CreditCard   `json:"credit_card,omitempty"`
	Installments  int                  `json:"installments,omitempty"`
}

// checkoutResponse is the raw wire shape; Client.SubmitCheckout converts it
// into the domain.PaymentResult variant matching the payment method.
type checkoutResponse struct {
	OrderID       string               `json:"order_id"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	Status        domain.PaymentStatus `json:"status,omitempty"`
	Pix           *pixPayload          `json:"pix,omitempty"`
	Boleto        *boletoPayload       `json:"boleto,omitempty"`
}

type pixPayload struct {
	Payload        string    `json:"payload"`
	QRCodeImage    string    `json:"qr_code_image"`
	ExpirationDate time.Time `json:"expiration_date"`
}

type boletoPayload struct {
	URL     string `json:"url"`
	Barcode string `json:"barcode"`
}

type statusResponse struct {
	PaymentStatus domain.PaymentStatus `json:"payment_status"`
}

type errorResponse struct {
	Message string `json:"message"`
}
