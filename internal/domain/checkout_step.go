package domain

type CheckoutStep string

const (
	CheckoutStepDelivery     CheckoutStep = "delivery"
	CheckoutStepPayment      CheckoutStep = "payment"
	CheckoutStepConfirmation CheckoutStep = "confirmation"
)

var allowedTransitions = map[CheckoutStep]map[CheckoutStep]bool{
	CheckoutStepDelivery: {
		CheckoutStepPayment: true,
	},
	CheckoutStepPayment: {
		CheckoutStepDelivery:     true,
		CheckoutStepConfirmation: true,
	},
	CheckoutStepConfirmation: {},
}

// CanTransitionTo reports whether the wizard may move from one step to another.
func CanTransitionTo(from, to CheckoutStep) bool {
	return allowedTransitions[from][to]
}

func (s CheckoutStep) IsTerminal() bool {
	return s == CheckoutStepConfirmation
}

// String representation (for logging)
func (s CheckoutStep) String() string {
	return string(s)
}

// Index is the zero-based position of the step in the wizard.
func (s CheckoutStep) Index() int {
	switch s {
	case CheckoutStepPayment:
		return 1
	case CheckoutStepConfirmation:
		return 2
	default:
		return 0
	}
}
