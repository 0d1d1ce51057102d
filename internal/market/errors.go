package market

import "errors"

var (
	ErrNotFound          = errors.New("product not found")
	ErrMalformedPrice    = errors.New("malformed price")
	ErrNotOwner          = errors.New("not the owner of this listing")
	ErrPaymentMismatch   = errors.New("attached payment does not equal the listed price")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrTransferFailed    = errors.New("transfer failed")
)
