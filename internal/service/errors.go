package service

import (
	"errors"
	"fmt"
)

// Domain errors surfaced by the transfer service. Validation failures are
// client-correctable and mapped to 400 by the HTTP layer; ErrNotFound maps
// to 404. Anything else is a storage failure and stays opaque (500).
var (
	// ErrSameAccount rejects transfers where origin and destination match.
	ErrSameAccount = errors.New("origin and destination accounts must not be the same")

	// ErrInvalidAmount rejects zero or negative transfer amounts.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrNotFound means the transfer does not exist or belongs to another
	// user. The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("transfer not found")

	// ErrAccountNotFound is returned by AccountOwners for unknown accounts.
	ErrAccountNotFound = errors.New("account not found")
)

// MissingFieldError reports a required transfer attribute that was absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is a required attribute", e.Field)
}

// ForeignAccountError reports an account that does not belong to the acting
// user. Unknown account ids get the same error so existence is not leaked.
type ForeignAccountError struct {
	AccountID uint
}

func (e *ForeignAccountError) Error() string {
	return fmt.Sprintf("account #%d does not belong to the user", e.AccountID)
}

// IsValidation reports whether err is a validation failure the caller can
// fix by correcting the payload.
func IsValidation(err error) bool {
	var mf *MissingFieldError
	var fa *ForeignAccountError
	return errors.As(err, &mf) ||
		errors.As(err, &fa) ||
		errors.Is(err, ErrSameAccount) ||
		errors.Is(err, ErrInvalidAmount)
}
