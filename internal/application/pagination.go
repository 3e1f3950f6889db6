package application

import (
	"fmt"

	"github.com/shareit-market/service-rental/internal/domain"
)

// validatePageWindow checks the (from, size) pair controlling a listing
// slice. from is a zero-based offset and size a positive page length;
// from == 0 && size == 0 is rejected explicitly to distinguish "no
// pagination supplied" from "zero results requested".
func validatePageWindow(from, size int) error {
	if from == 0 && size == 0 {
		return domain.NewValidationError(fmt.Sprintf("invalid page window: from = %d and size = %d", from, size))
	}
	if from < 0 || size <= 0 {
		return domain.NewValidationError(fmt.Sprintf("invalid page window: from = %d and size = %d", from, size))
	}
	return nil
}

// pageIndex converts the offset into the page number fetched from the store.
func pageIndex(from, size int) int {
	return from / size
}
