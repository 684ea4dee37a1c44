package equality

import "go.uber.org/fx"

// NewEqualityModule creates a new fx module providing a default *Checker.
// Applications that need type-specific comparators can decorate or replace
// the provided instance.
func NewEqualityModule() fx.Option {
	return fx.Provide(
		NewChecker,
	)
}
