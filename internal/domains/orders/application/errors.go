package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-shop-api/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrProductNotFound is returned when a requested product is absent from the catalog.
	ErrProductNotFound = errors.New("product not found")
	// ErrUnauthenticated is returned when no user identity accompanies the request.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrAccessDenied is returned when the requester may not act on the order.
	ErrAccessDenied = errors.New("access denied")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyItems) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidProductID) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrAmountTooLarge) ||
		errors.Is(err, domain.ErrInvalidOwner) ||
		errors.Is(err, domain.ErrInvalidStatus) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

func productNotFound(productID int64) error {
	return fmt.Errorf("%w: %w: id %d", ErrInvalidInput, ErrProductNotFound, productID)
}
