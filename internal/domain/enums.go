package domain

// ItemType represents the kind of product a cart item refers to
type ItemType string

const (
	ItemTypeCourse ItemType = "course"
	ItemTypeEbook  ItemType = "ebook"
	ItemTypePaper  ItemType = "paper"
)

// IsValid checks if the item type is valid
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeCourse, ItemTypeEbook, ItemTypePaper:
		return true
	default:
		return false
	}
}

// PaymentMethod represents the payment rail chosen at checkout
type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentMethodPix        PaymentMethod = "PIX"
	PaymentMethodBoleto     PaymentMethod = "BOLETO"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCreditCard, PaymentMethodPix, PaymentMethodBoleto:
		return true
	default:
		return false
	}
}

// PaymentStatus represents the settlement status of an order
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusConfirmed PaymentStatus = "CONFIRMED"
	PaymentStatusDeclined  PaymentStatus = "DECLINED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
	PaymentStatusExpired   PaymentStatus = "EXPIRED"
)

// IsValid checks if the payment status is valid
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending,
		PaymentStatusConfirmed,
		PaymentStatusDeclined,
		PaymentStatusCancelled,
		PaymentStatusExpired:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further settlement transition is possible
func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentStatusConfirmed, PaymentStatusDeclined, PaymentStatusCancelled, PaymentStatusExpired:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a settlement transition is valid
func (s PaymentStatus) CanTransitionTo(newStatus PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return newStatus == PaymentStatusConfirmed ||
			newStatus == PaymentStatusDeclined ||
			newStatus == PaymentStatusCancelled ||
			newStatus == PaymentStatusExpired
	default:
		return false // terminal states
	}
}

// CheckoutStep represents the position in the checkout wizard
type CheckoutStep int

const (
	StepCustomer CheckoutStep = 1
	StepPayment  CheckoutStep = 2
	StepResult   CheckoutStep = 3
)

// IsValid checks if the checkout step is valid
func (s CheckoutStep) IsValid() bool {
	return s >= StepCustomer && s <= StepResult
}

// CanTransitionTo checks if a wizard transition is valid. The wizard is
// linear going forward; closing the checkout resets to StepCustomer from
// anywhere, so backward transitions are always allowed.
func (s CheckoutStep) CanTransitionTo(newStep CheckoutStep) bool {
	if !newStep.IsValid() {
		return false
	}
	return newStep <= s || newStep == s+1
}
