// Package ledger owns the user and purchase records and every rule that
// mutates them: registration and referral linkage, the coin wallet,
// reward grants, discount arithmetic and level promotion. The bot layer
// never touches rows directly; it calls ledger operations and renders
// the sentinel errors below into user-facing replies.
package ledger

import "errors"

var (
	// ErrUserNotFound indicates the addressed user has no ledger record.
	ErrUserNotFound = errors.New("user not found")

	// ErrInsufficientFunds is returned by debiting operations when the
	// wallet cannot cover the amount. The balance is left untouched.
	ErrInsufficientFunds = errors.New("not enough coins")

	// ErrInsufficientLevel is returned when a gift or discount requires
	// a higher loyalty level than the user has.
	ErrInsufficientLevel = errors.New("loyalty level too low")

	// ErrUnknownGift is returned for gift codes absent from the catalog.
	ErrUnknownGift = errors.New("unknown gift")

	// ErrInvalidAmount is returned for zero or negative credit/debit
	// amounts.
	ErrInvalidAmount = errors.New("amount must be positive")
)
