package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict on insert.
	ErrAlreadyExists = errors.New("already exists")
	// ErrDuplicate is returned when a wishlist entry with the same product
	// reference is added twice.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrNoActiveCart is returned by operations that require an existing
	// active cart, such as checkout.
	ErrNoActiveCart = errors.New("no active cart")
	// ErrEmptyCart is returned when checking out a cart with no items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrValidation marks rejected input. Match with errors.Is; the concrete
	// message comes from Validation.
	ErrValidation = errors.New("validation failed")
)

type validationError struct{ msg string }

func (e validationError) Error() string { return e.msg }

func (e validationError) Is(target error) bool { return target == ErrValidation }

// Validation builds an input error that satisfies errors.Is(err, ErrValidation)
// while keeping msg as the user-facing text.
func Validation(msg string) error { return validationError{msg: msg} }
