package domain

import "time"

// CartItem represents one purchasable line in the cart, keyed by product ID.
// Prices are integer cents.
type CartItem struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Price        int64    `json:"price"`
	Quantity     int      `json:"quantity"`
	Type         ItemType `json:"type"`
	ThumbnailURL string   `json:"thumbnail_url,omitempty"`
}

// Customer holds the buyer data collected on the first checkout step
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	TaxID string `json:"tax_id"`
	Phone string `json:"phone,omitempty"`
}

// CreditCard holds card data for a CREDIT_CARD checkout. It lives only in
// memory for the duration of a checkout session and must never be persisted.
type CreditCard struct {
	HolderName  string `json:"holder_name"`
	Number      string `json:"number"`
	ExpiryMonth string `json:"expiry_month"`
	ExpiryYear  string `json:"expiry_year"`
	CCV         string `json:"ccv"`
}

// PaymentResult is the discriminated response of a checkout submission.
// Exactly one concrete type exists per payment method, so inconsistent
// combinations (a result carrying both PIX and boleto data) cannot be
// represented.
type PaymentResult interface {
	OrderID() string
	Method() PaymentMethod
}

// CreditCardResult is a synchronously settled card payment outcome
type CreditCardResult struct {
	Order  string
	Status PaymentStatus
}

func (r CreditCardResult) OrderID() string       { return r.Order }
func (r CreditCardResult) Method() PaymentMethod { return PaymentMethodCreditCard }

// PixResult carries the data needed to render a PIX charge. Settlement is
// asynchronous; the order must be watched until it confirms.
type PixResult struct {
	Order          string
	Payload        string
	QRCodeImage    string // base64 PNG
	ExpirationDate time.Time
}

func (r PixResult) OrderID() string       { return r.Order }
func (r PixResult) Method() PaymentMethod { return PaymentMethodPix }

// BoletoResult carries the printable bank slip data. Settlement takes days;
// the order is watched the same way as PIX.
type BoletoResult struct {
	Order   string
	URL     string
	Barcode string
}

func (r BoletoResult) OrderID() string       { return r.Order }
func (r BoletoResult) Method() PaymentMethod { return PaymentMethodBoleto }
