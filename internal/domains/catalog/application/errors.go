package application

import (
	"errors"
	"fmt"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/domain"
)

var (
	// ErrInvalidInput signals the request violated a product invariant.
	ErrInvalidInput = errors.New("invalid product input")
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
