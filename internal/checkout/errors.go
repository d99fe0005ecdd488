package checkout

import "errors"

var (
	ErrEmptyCart            = errors.New("cart is empty, nothing to checkout")
	ErrInvalidTransition    = errors.New("illegal transition of checkout step")
	ErrSubmissionInProgress = errors.New("payment submission already in progress")
	ErrCheckoutComplete     = errors.New("checkout already completed")
	ErrChargeFailed         = errors.New("charge failed")
)
