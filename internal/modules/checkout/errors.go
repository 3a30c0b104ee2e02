package checkout

import "errors"

var (
	ErrItemNotFound      = errors.New("item not found")
	ErrItemUnavailable   = errors.New("item unavailable")
	ErrFeeMismatch       = errors.New("fee does not match item price")
	ErrOrderIncomplete   = errors.New("provider order is not completed")
	ErrOrderIDRequired   = errors.New("order id is required")
	ErrDonorNameRequired = errors.New("donor name is required to adopt")
)
