package serde

import "fmt"

type compatibilityKind int

const (
	compatibleAsIs compatibilityKind = iota
	compatibleAfterReconfiguration
	incompatible
)

// Compatibility is the outcome of resolving a restored configuration snapshot
// against a current serializer. Exactly one of the three constructors applies.
type Compatibility[T any] struct {
	kind         compatibilityKind
	reconfigured Serializer[T]
	reason       string
}

// CompatibleAsIs reports that the restored snapshot can reconstruct a
// serializer usable in place of the original.
func CompatibleAsIs[T any]() Compatibility[T] {
	return Compatibility[T]{kind: compatibleAsIs}
}

// CompatibleAfterReconfiguration reports that the given reconfigured
// serializer must be used going forward.
func CompatibleAfterReconfiguration[T any](reconfigured Serializer[T]) Compatibility[T] {
	return Compatibility[T]{kind: compatibleAfterReconfiguration, reconfigured: reconfigured}
}

// Incompatible reports that the restored configuration cannot be used with
// the current serializer.
func Incompatible[T any](reason string) Compatibility[T] {
	return Compatibility[T]{kind: incompatible, reason: reason}
}

// IsCompatibleAsIs reports whether the snapshot is compatible without changes.
func (c Compatibility[T]) IsCompatibleAsIs() bool {
	return c.kind == compatibleAsIs
}

// IsCompatibleAfterReconfiguration reports whether an alternate serializer
// must be used going forward.
func (c Compatibility[T]) IsCompatibleAfterReconfiguration() bool {
	return c.kind == compatibleAfterReconfiguration
}

// IsIncompatible reports whether resolution failed.
func (c Compatibility[T]) IsIncompatible() bool {
	return c.kind == incompatible
}

// ReconfiguredSerializer returns the serializer to use going forward. It is
// only non-nil for the compatible-after-reconfiguration outcome.
func (c Compatibility[T]) ReconfiguredSerializer() Serializer[T] {
	return c.reconfigured
}

// String describes the resolution outcome for failure messages.
func (c Compatibility[T]) String() string {
	switch c.kind {
	case compatibleAsIs:
		return "compatible as is"
	case compatibleAfterReconfiguration:
		return "compatible with reconfigured serializer"
	default:
		if c.reason != "" {
			return fmt.Sprintf("incompatible: %s", c.reason)
		}
		return "incompatible"
	}
}
