package conformance

import "go.uber.org/fx"

// NewConformanceModule creates a new fx module providing the suite Config
// loaded from viper. Combine with equality.NewEqualityModule to also provide
// the default deep-equality checker.
func NewConformanceModule() fx.Option {
	return fx.Provide(
		newConfig,
	)
}
