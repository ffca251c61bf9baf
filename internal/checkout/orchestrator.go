package checkout

import (
	"context"
	goerrors "errors"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edustore/storefront/internal/cart"
	"github.com/edustore/storefront/internal/domain"
	"github.com/edustore/storefront/internal/gateway"
	"github.com/edustore/storefront/pkg/errors"
)

// ErrClosed indicates the checkout was closed while a submission was in
// flight; the result was discarded.
var ErrClosed = goerrors.New("checkout closed")

// MaxInstallments is the credit card installment ceiling
const MaxInstallments = 12

// PaymentGateway initiates payments with the external provider
type PaymentGateway interface {
	SubmitCheckout(ctx context.Context, idempotencyKey string, req gateway.CheckoutRequest) (domain.PaymentResult, error)
}

// Orchestrator drives the three-step checkout wizard: customer data, then
// payment method, then result. It owns the ephemeral checkout session; card
// data lives only here and is wiped on Close, never persisted.
type Orchestrator struct {
	cart    *cart.Store
	gateway PaymentGateway
	watcher *Watcher
	logger  *zap.Logger

	mu           sync.Mutex
	gen          int
	step         domain.CheckoutStep
	customer     domain.Customer
	method       domain.PaymentMethod
	card         *domain.CreditCard
	installments int
	result       domain.PaymentResult
	idemKey      string
	inFlight     bool
}

// NewOrchestrator creates a checkout session over the given cart
func NewOrchestrator(cartStore *cart.Store, gw PaymentGateway, watcher *Watcher, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		cart:    cartStore,
		gateway: gw,
		watcher: watcher,
		logger:  logger,
		step:    domain.StepCustomer,
		idemKey: uuid.NewString(),
	}
}

// Step returns the current wizard step
func (o *Orchestrator) Step() domain.CheckoutStep {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.step
}

// Customer returns the customer collected on step one
func (o *Orchestrator) Customer() domain.Customer {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.customer
}

// Result returns the payment result once step three is reached, nil before
func (o *Orchestrator) Result() domain.PaymentResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.result
}

// Watcher returns the confirmation watcher owned by this session
func (o *Orchestrator) Watcher() *Watcher {
	return o.watcher
}

// SubmitCustomer validates step one and advances to payment selection.
// Validation failures keep the wizard on step one and never hit the
// network. Phone is optional.
func (o *Orchestrator) SubmitCustomer(c domain.Customer) error {
	missing := missingCustomerFields(c)
	if len(missing) > 0 {
		return &errors.ErrValidation{Fields: missing}
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.step != domain.StepCustomer {
		return &errors.ErrInvalidStateTransition{
			From: strconv.Itoa(int(o.step)),
			To:   strconv.Itoa(int(domain.StepPayment)),
		}
	}

	o.customer = c
	o.step = domain.StepPayment
	return nil
}

// SubmitPayment submits the cart for payment with the chosen method. It
// calls the provider exactly once per invocation; a second call while one
// is in flight is rejected rather than queued. Errors keep the wizard on
// step two, there is no automatic retry.
func (o *Orchestrator) SubmitPayment(
	ctx context.Context,
	method domain.PaymentMethod,
	card *domain.CreditCard,
	installments int,
) (domain.PaymentResult, error) {
	o.mu.Lock()

	if o.step != domain.StepPayment {
		o.mu.Unlock()
		return nil, &errors.ErrInvalidStateTransition{
			From: strconv.Itoa(int(o.step)),
			To:   strconv.Itoa(int(domain.StepResult)),
		}
	}
	if o.inFlight {
		o.mu.Unlock()
		return nil, &errors.ErrSubmissionInFlight{}
	}

	items := o.cart.Items()
	if err := validatePayment(method, card, installments, len(items)); err != nil {
		o.mu.Unlock()
		return nil, err
	}
	if installments == 0 {
		installments = 1
	}

	req := gateway.CheckoutRequest{
		Items:         make([]gateway.LineItem, 0, len(items)),
		Customer:      o.customer,
		PaymentMethod: method,
	}
	for _, item := range items {
		req.Items = append(req.Items, gateway.LineItem{
			ID:       item.ID,
			Title:    item.Title,
			Price:    item.Price,
			Quantity: item.Quantity,
			Type:     item.Type,
		})
	}
	if method == domain.PaymentMethodCreditCard {
		req.CreditCard = card
		req.Installments = installments
	}

	o.inFlight = true
	gen := o.gen
	idemKey := o.idemKey
	o.mu.Unlock()

	result, err := o.gateway.SubmitCheckout(ctx, idemKey, req)

	o.mu.Lock()
	if o.gen != gen {
		// closed while in flight, session already reset
		o.mu.Unlock()
		return nil, ErrClosed
	}
	o.inFlight = false
	if err != nil {
		o.mu.Unlock()
		return nil, err
	}

	o.method = method
	o.card = card
	o.installments = installments
	o.result = result
	o.step = domain.StepResult

	// Commit and watcher start happen under the same lock acquisition as
	// the generation check, so Close cannot slip in between and leave a
	// poller running on a torn-down session.
	switch r := result.(type) {
	case domain.CreditCardResult:
		if r.Status == domain.PaymentStatusConfirmed {
			o.cart.Clear()
		}
	case domain.PixResult, domain.BoletoResult:
		// asynchronous settlement, watch until the provider confirms
		o.watcher.Start(result.OrderID(), o.onConfirmed)
	}
	o.mu.Unlock()

	return result, nil
}

// InstallmentAmount returns the per-installment charge in cents for the
// current cart total, rounded to the nearest cent
func (o *Orchestrator) InstallmentAmount(installments int) (int64, error) {
	if installments < 1 || installments > MaxInstallments {
		return 0, &errors.ErrValidation{Fields: []string{"installments"}}
	}
	total := o.cart.Total()
	return int64(math.Round(float64(total) / float64(installments))), nil
}

// Close cancels the checkout: the watcher stops, the wizard resets to step
// one and the session, card data included, is discarded. The next checkout
// gets a fresh idempotency key.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	// Stop under o.mu so Close serializes with the submission path: either
	// it lands before the result commit (the generation check then discards
	// the result) or after the watcher has started (Stop then tears it down).
	o.watcher.Stop()

	o.gen++
	o.step = domain.StepCustomer
	o.customer = domain.Customer{}
	o.method = ""
	o.card = nil
	o.installments = 0
	o.result = nil
	o.idemKey = uuid.NewString()
	o.inFlight = false
}

// onConfirmed runs when the watcher sees CONFIRMED. Clearing is idempotent
// at the store level, so a manual clear beforehand is harmless.
func (o *Orchestrator) onConfirmed() {
	o.cart.Clear()
	o.logger.Info("Checkout complete, cart cleared")
}

func missingCustomerFields(c domain.Customer) []string {
	var missing []string
	if strings.TrimSpace(c.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(c.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(c.TaxID) == "" {
		missing = append(missing, "tax_id")
	}
	return missing
}

func validatePayment(method domain.PaymentMethod, card *domain.CreditCard, installments, itemCount int) error {
	var invalid []string

	if !method.IsValid() {
		invalid = append(invalid, "payment_method")
	}
	if itemCount == 0 {
		invalid = append(invalid, "items")
	}

	if method == domain.PaymentMethodCreditCard {
		if card == nil {
			invalid = append(invalid, "credit_card")
		} else {
			if strings.TrimSpace(card.HolderName) == "" {
				invalid = append(invalid, "credit_card.holder_name")
			}
			if strings.TrimSpace(card.Number) == "" {
				invalid = append(invalid, "credit_card.number")
			}
			if strings.TrimSpace(card.ExpiryMonth) == "" {
				invalid = append(invalid, "credit_card.expiry_month")
			}
			if strings.TrimSpace(card.ExpiryYear) == "" {
				invalid = append(invalid, "credit_card.expiry_year")
			}
			if strings.TrimSpace(card.CCV) == "" {
				invalid = append(invalid, "credit_card.ccv")
			}
		}
		if installments < 0 || installments > MaxInstallments {
			invalid = append(invalid, "installments")
		}
	}

	if len(invalid) > 0 {
		return &errors.ErrValidation{Fields: invalid}
	}
	return nil
}
