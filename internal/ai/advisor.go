package ai

import "context"

// Reply is one assistant answer plus the plan names it referenced, so the
// caller can extend its exclusion list for the next turn.
type Reply struct {
	Text      string
	PlanNames []string
}

// Advisor answers free-text insurance questions conversationally. The
// exclusion list names plans already shown in the conversation; they are
// never recommended again.
type Advisor interface {
	Advise(ctx context.Context, question string, excludeNames []string) (*Reply, error)
}
