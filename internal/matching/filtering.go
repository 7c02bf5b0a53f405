package matching

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/havenly/planmatch/internal/catalog"
)

// Filter is a single eligibility step applied to the plan list.
type Filter interface {
	Name() string
	IsEnabled() bool

	Validate() error
	Apply(plans []catalog.Plan) ([]catalog.Plan, Step, error)
}

// Step describes the result of executing one filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Run executes the supplied filters sequentially. An empty result is a valid
// outcome, not an error.
func Run(filters []Filter, plans []catalog.Plan, logger *zap.Logger) ([]catalog.Plan, error) {
	for _, step := range filters {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range filters {
		if !step.IsEnabled() {
			if logger != nil {
				logger.Debug("filter disabled", zap.String("name", step.Name()))
			}
			continue
		}

		next, info, err := step.Apply(plans)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		if logger != nil {
			logger.Info("filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		plans = next
	}

	return plans, nil
}
