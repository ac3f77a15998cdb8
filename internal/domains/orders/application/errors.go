package application

import (
	"errors"
	"fmt"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
