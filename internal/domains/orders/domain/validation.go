package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingName    = errors.New("name is required")
	ErrMissingAddress = errors.New("address is required")
	ErrEmptyCart      = errors.New("cartItems must contain at least one item")
	ErrInvalidItem    = errors.New("cart item is invalid")
	ErrMissingStatus  = errors.New("status is required")
	ErrNameTooLong    = fmt.Errorf("name must be at most %d characters", MaxNameLength)
	ErrStatusTooLong  = fmt.Errorf("status must be at most %d characters", MaxStatusLength)
	ErrAddressTooLong = fmt.Errorf("address must be at most %d bytes", MaxAddressBytes)
	ErrTotalTooLarge  = errors.New("order total exceeds the maximum amount")
)

// Limits shared with the relational schema (VARCHAR sizes, DECIMAL(12,2), INTEGER).
const (
	MaxNameLength   = 255
	MaxStatusLength = 32
	MaxAddressBytes = 65535
	MaxQuantity     = math.MaxInt32
)

// MaxAmount is the largest value a DECIMAL(12,2) column holds.
var MaxAmount = decimal.RequireFromString("9999999999.99")

// ValidationError collects every problem found in a request.
type ValidationError struct {
	Problems []error
}

func (v *ValidationError) Error() string {
	var b strings.Builder
	for i, p := range v.Problems {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(p.Error())
	}
	return b.String()
}

// Unwrap exposes the individual problems to errors.Is.
func (v *ValidationError) Unwrap() []error {
	return v.Problems
}

// MissingRequiredFields reports whether the failure is about absent name, address or cart, as
// opposed to malformed cart lines.
func (v *ValidationError) MissingRequiredFields() bool {
	for _, p := range v.Problems {
		if errors.Is(p, ErrMissingName) || errors.Is(p, ErrMissingAddress) || errors.Is(p, ErrEmptyCart) {
			return true
		}
	}
	return false
}

// ValidatePlacement checks a checkout request without touching any store.
func ValidatePlacement(input PlacementInput) error {
	var problems []error
	if name := strings.TrimSpace(input.Name); name == "" {
		problems = append(problems, ErrMissingName)
	} else if utf8.RuneCountInString(name) > MaxNameLength {
		problems = append(problems, ErrNameTooLong)
	}
	if address := strings.TrimSpace(input.Address); address == "" {
		problems = append(problems, ErrMissingAddress)
	} else if len(address) > MaxAddressBytes {
		problems = append(problems, ErrAddressTooLong)
	}
	if len(input.CartItems) == 0 {
		problems = append(problems, ErrEmptyCart)
	}
	itemsValid := true
	total := decimal.Zero
	for i, item := range input.CartItems {
		before := len(problems)
		if name := strings.TrimSpace(item.Name); name == "" {
			problems = append(problems, fmt.Errorf("%w: cartItems[%d].name is required", ErrInvalidItem, i))
		} else if utf8.RuneCountInString(name) > MaxNameLength {
			problems = append(problems, fmt.Errorf("%w: cartItems[%d].name must be at most %d characters", ErrInvalidItem, i, MaxNameLength))
		}
		switch {
		case item.Price == nil:
			problems = append(problems, fmt.Errorf("%w: cartItems[%d].price is required", ErrInvalidItem, i))
		case item.Price.IsNegative():
			problems = append(problems, fmt.Errorf("%w: cartItems[%d].price must be >= 0", ErrInvalidItem, i))
		case !item.Price.Equal(item.Price.Truncate(2)):
			problems = append(problems, fmt.Errorf("%w: cartItems[%d].price must have at most 2 decimals", ErrInvalidItem, i))
		case item.Price.GreaterThan(MaxAmount):
			problems = append(problems, fmt.Errorf("%w: cartItems[%d].price must be at most %s", ErrInvalidItem, i, MaxAmount))
		}
		if item.Quantity <= 0 {
			problems = append(problems, fmt.Errorf("%w: cartItems[%d].quantity must be > 0", ErrInvalidItem, i))
		} else if item.Quantity > MaxQuantity {
			problems = append(problems, fmt.Errorf("%w: cartItems[%d].quantity must be at most %d", ErrInvalidItem, i, MaxQuantity))
		}
		if len(problems) > before {
			itemsValid = false
			continue
		}
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	if itemsValid && total.GreaterThan(MaxAmount) {
		problems = append(problems, ErrTotalTooLarge)
	}
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}
