package conformance

import "errors"

var (
	// ErrFixtureDefect marks failures caused by the fixture itself (nil
	// serializer factory, empty sample set, illegal declared length) rather
	// than by the serializer under test.
	ErrFixtureDefect = errors.New("fixture defect")

	// ErrContractViolation marks failures of the serializer under test:
	// equality mismatches, leftover or missing bytes, wrong reported length,
	// or an incompatible snapshot resolution.
	ErrContractViolation = errors.New("serializer contract violation")

	// ErrCloneFailure marks a serializer that cannot be cloned through its
	// configuration snapshot, reported distinctly from equality failures.
	ErrCloneFailure = errors.New("serializer clone failure")
)
