package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edustore/storefront/internal/config"
	"github.com/edustore/storefront/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(config.PaymentConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
	}, zap.NewNop())
}

func sampleRequest() CheckoutRequest {
	return CheckoutRequest{
		Items: []LineItem{
			{ID: "go-101", Title: "Go Course", Price: 10000, Quantity: 1, Type: domain.ItemTypeCourse},
		},
		Customer: domain.Customer{
			Name:  "Ana Lima",
			Email: "ana@example.com",
			TaxID: "12345678900",
		},
		PaymentMethod: domain.PaymentMethodPix,
	}
}

func TestSubmitCheckout_PixResponse(t *testing.T) {
	sut := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/checkout", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "idem-1", r.Header.Get("Idempotency-Key"))

		var req CheckoutRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, domain.PaymentMethodPix, req.PaymentMethod)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"order_id": "order-1",
			"payment_method": "PIX",
			"pix": {
				"payload": "pix-copy-paste",
				"qr_code_image": "aW1hZ2U=",
				"expiration_date": "2026-09-01T12:00:00Z"
			}
		}`))
	})

	result, err := sut.SubmitCheckout(context.Background(), "idem-1", sampleRequest())
	require.NoError(t, err)

	pix, ok := result.(domain.PixResult)
	require.True(t, ok)
	assert.Equal(t, "order-1", pix.OrderID())
	assert.Equal(t, "pix-copy-paste", pix.Payload)
	assert.Equal(t, "aW1hZ2U=", pix.QRCodeImage)
	assert.Equal(t, 2026, pix.ExpirationDate.Year())
}

func TestSubmitCheckout_CreditCardResponse(t *testing.T) {
	sut := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"order_id": "order-2", "payment_method": "CREDIT_CARD", "status": "CONFIRMED"}`))
	})

	req := sampleRequest()
	req.PaymentMethod = domain.PaymentMethodCreditCard

	result, err := sut.SubmitCheckout(context.Background(), "idem-1", req)
	require.NoError(t, err)

	card, ok := result.(domain.CreditCardResult)
	require.True(t, ok)
	assert.Equal(t, domain.PaymentStatusConfirmed, card.Status)
}

func TestSubmitCheckout_BoletoResponse(t *testing.T) {
	sut := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"order_id": "order-3",
			"payment_method": "BOLETO",
			"boleto": {"url": "https://bank.example/boleto/3", "barcode": "34191"}
		}`))
	})

	req := sampleRequest()
	req.PaymentMethod = domain.PaymentMethodBoleto

	result, err := sut.SubmitCheckout(context.Background(), "idem-1", req)
	require.NoError(t, err)

	boleto, ok := result.(domain.BoletoResult)
	require.True(t, ok)
	assert.Equal(t, "34191", boleto.Barcode)
}

func TestSubmitCheckout_APIErrorCarriesMessage(t *testing.T) {
	sut := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message": "card declined by issuer"}`))
	})

	_, err := sut.SubmitCheckout(context.Background(), "idem-1", sampleRequest())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "card declined by issuer", apiErr.Message)
}

func TestSubmitCheckout_MismatchedDiscriminantRejected(t *testing.T) {
	sut := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// pix method without a pix payload
		w.Write([]byte(`{"order_id": "order-4", "payment_method": "PIX"}`))
	})

	_, err := sut.SubmitCheckout(context.Background(), "idem-1", sampleRequest())
	require.ErrorContains(t, err, "missing pix payload")
}

func TestSubmitCheckout_MissingOrderIDRejected(t *testing.T) {
	sut := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"payment_method": "PIX", "pix": {"payload": "p"}}`))
	})

	_, err := sut.SubmitCheckout(context.Background(), "idem-1", sampleRequest())
	require.ErrorContains(t, err, "missing order_id")
}

func TestOrderStatus_ParsesStatus(t *testing.T) {
	sut := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/checkout/status/order-1", r.URL.Path)
		w.Write([]byte(`{"payment_status": "PENDING"}`))
	})

	status, err := sut.OrderStatus(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPending, status)
}

func TestOrderStatus_UnknownStatusRejected(t *testing.T) {
	sut := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"payment_status": "MAYBE"}`))
	})

	_, err := sut.OrderStatus(context.Background(), "order-1")
	require.ErrorContains(t, err, "unknown payment status")
}

func TestOrderStatus_TransportErrorSurfaces(t *testing.T) {
	sut := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"message": "upstream timeout"}`))
	})

	_, err := sut.OrderStatus(context.Background(), "order-1")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
}
