package domain

import (
	"errors"
	"fmt"
)

// Kind is the closed set of failures the cart service reports.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindNoCart
	KindInvalidProduct
	KindDuplicateItem
	KindItemNotInCart
	KindInvalidQuantity
	KindEmptyCart
	KindAddressNotSet
	KindInsufficientFunds
	KindPersistenceFailure
)

var kindNames = map[Kind]string{
	KindInternal:           "Internal",
	KindNotFound:           "NotFound",
	KindNoCart:             "NoCart",
	KindInvalidProduct:     "InvalidProduct",
	KindDuplicateItem:      "DuplicateItem",
	KindItemNotInCart:      "ItemNotInCart",
	KindInvalidQuantity:    "InvalidQuantity",
	KindEmptyCart:          "EmptyCart",
	KindAddressNotSet:      "AddressNotSet",
	KindInsufficientFunds:  "InsufficientFunds",
	KindPersistenceFailure: "PersistenceFailure",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Class groups kinds the way a transport maps them to status codes.
type Class int

const (
	ClassInternal Class = iota
	ClassNotFound
	ClassInvalidRequest
)

func (c Class) String() string {
	switch c {
	case ClassNotFound:
		return "not-found"
	case ClassInvalidRequest:
		return "invalid-request"
	default:
		return "internal"
	}
}

func (k Kind) Class() Class {
	switch k {
	case KindNotFound:
		return ClassNotFound
	case KindNoCart, KindInvalidProduct, KindDuplicateItem, KindItemNotInCart,
		KindInvalidQuantity, KindEmptyCart, KindAddressNotSet, KindInsufficientFunds:
		return ClassInvalidRequest
	default:
		return ClassInternal
	}
}

// Error is a classified failure with a message safe to show to the caller.
// Err keeps the underlying cause, if any, for logs and errors.Is.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

var (
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "User does not have a cart"}
	ErrNoCart             = &Error{Kind: KindNoCart, Message: "User does not have a cart. Use POST to create cart and add a product"}
	ErrInvalidProduct     = &Error{Kind: KindInvalidProduct, Message: "Product doesn't exist in database"}
	ErrDuplicateItem      = &Error{Kind: KindDuplicateItem, Message: "Product already in cart. Use the cart sidebar to update or remove product from cart"}
	ErrItemNotInCart      = &Error{Kind: KindItemNotInCart, Message: "Product not in cart"}
	ErrInvalidQuantity    = &Error{Kind: KindInvalidQuantity, Message: "Quantity must be a positive integer"}
	ErrEmptyCart          = &Error{Kind: KindEmptyCart, Message: "Cart is empty"}
	ErrAddressNotSet      = &Error{Kind: KindAddressNotSet, Message: "Address not set"}
	ErrInsufficientFunds  = &Error{Kind: KindInsufficientFunds, Message: "Wallet balance is insufficient"}
	ErrPersistenceFailure = &Error{Kind: KindPersistenceFailure, Message: "Failed to persist changes"}
	ErrInternal           = &Error{Kind: KindInternal, Message: "Internal error"}
)

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Wrap returns a copy of e carrying cause.
func (e *Error) Wrap(cause error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Err: cause}
}

// KindOf reports the Kind of err, KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ErrConflict marks a write rejected because the record changed since it was read.
var ErrConflict = errors.New("concurrent modification")

// IsRetryable reports whether a caller may safely retry the failed operation.
func IsRetryable(err error) bool {
	return KindOf(err) == KindPersistenceFailure && errors.Is(err, ErrConflict)
}
