package errors

import (
	"errors"
)

var (
	ErrEmptyAuth        = errors.New("missing authorization")
	ErrEmptySubject     = errors.New("missing subject")
	ErrTokenInvalid     = errors.New("invalid token")
	ErrUnauthenticated  = errors.New("user is not authenticated")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrUserNotFound     = errors.New("user not found")
	ErrPasswordMismatch = errors.New("password mismatch")
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrLineItemNotFound = errors.New("cart item not found")
)
