package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/edustore/storefront/internal/config"
	"github.com/edustore/storefront/internal/domain"
)

// APIError is a non-2xx response from the payment provider
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("payment API error: status %d: %s", e.Status, e.Message)
}

// Client talks to the payment provider's REST API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
	statusSfg  singleflight.Group // Collapses concurrent polls per order
}

// NewClient creates a new payment provider client
func NewClient(cfg config.PaymentConfig, logger *zap.Logger) *Client {
	// Normalize base URL - remove trailing slashes
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")

	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// SubmitCheckout initiates a payment. The idempotency key is generated once
// per checkout session, so a manual resubmit after a transport error cannot
// double-charge.
func (c *Client) SubmitCheckout(ctx context.Context, idempotencyKey string, req CheckoutRequest) (domain.PaymentResult, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/checkout", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("X-Api-Key", c.apiKey)
	}
	if idempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", idempotencyKey)
	}

	body, err := c.execute(httpReq)
	if err != nil {
		return nil, err
	}

	var resp checkoutResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return toPaymentResult(resp)
}

// OrderStatus fetches the settlement status of an order. Concurrent polls
// for the same order share a single request.
func (c *Client) OrderStatus(ctx context.Context, orderID string) (domain.PaymentStatus, error) {
	v, err, _ := c.statusSfg.Do(orderID, func() (interface{}, error) {
		url := fmt.Sprintf("%s/checkout/status/%s", c.baseURL, orderID)
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		if c.apiKey != "" {
			httpReq.Header.Set("X-Api-Key", c.apiKey)
		}

		body, err := c.execute(httpReq)
		if err != nil {
			return nil, err
		}

		var resp statusResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to unmarshal response: %w", err)
		}

		if !resp.PaymentStatus.IsValid() {
			return nil, fmt.Errorf("unknown payment status: %q", resp.PaymentStatus)
		}

		return resp.PaymentStatus, nil
	})

	if err != nil {
		return "", err
	}

	return v.(domain.PaymentStatus), nil
}

func (c *Client) execute(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: string(body)}
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
			apiErr.Message = errResp.Message
		}
		c.logger.Error("Payment API request failed",
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode),
		)
		return nil, apiErr
	}

	return body, nil
}

// toPaymentResult maps the wire response onto the result variant for its
// payment method, rejecting shapes that don't match the discriminant.
func toPaymentResult(resp checkoutResponse) (domain.PaymentResult, error) {
	if resp.OrderID == "" {
		return nil, fmt.Errorf("payment response missing order_id")
	}

	switch resp.PaymentMethod {
	case domain.PaymentMethodCreditCard:
		if !resp.Status.IsValid() {
			return nil, fmt.Errorf("credit card response has invalid status: %q", resp.Status)
		}
		return domain.CreditCardResult{Order: resp.OrderID, Status: resp.Status}, nil

	case domain.PaymentMethodPix:
		if resp.Pix == nil {
			return nil, fmt.Errorf("pix response missing pix payload")
		}
		return domain.PixResult{
			Order:          resp.OrderID,
			Payload:        resp.Pix.Payload,
			QRCodeImage:    resp.Pix.QRCodeImage,
			ExpirationDate: resp.Pix.ExpirationDate,
		}, nil

	case domain.PaymentMethodBoleto:
		if resp.Boleto == nil {
			return nil, fmt.Errorf("boleto response missing boleto payload")
		}
		return domain.BoletoResult{
			Order:   resp.OrderID,
			URL:     resp.Boleto.URL,
			Barcode: resp.Boleto.Barcode,
		}, nil

	default:
		return nil, fmt.Errorf("unknown payment method in response: %q", resp.PaymentMethod)
	}
}
