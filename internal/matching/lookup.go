package matching

import (
	"errors"

	"github.com/havenly/planmatch/internal/catalog"
)

// ErrPlanNotFound signals that no plan name matched the lookup text. Callers
// render a clear message instead of an empty plan record.
var ErrPlanNotFound = errors.New("plan not found")

// Lookup returns the first plan whose marketing name contains the given text,
// case-insensitively, in stored catalog order.
func Lookup(cat *catalog.Catalog, partial string) (*catalog.Plan, error) {
	plan, ok := cat.FindByName(partial)
	if !ok {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}
