package equality

import (
	"fmt"
	"reflect"
)

// Comparator compares an expected value against an actual one.
type Comparator func(expected, actual any) bool

// Checker performs deep comparisons between original and reconstructed
// values. The default strategy is structural comparison via
// reflect.DeepEqual; a per-type comparator can be registered to override it
// for types whose value equality is unreliable or absent.
//
// A checker is stateless across calls and safe for concurrent use once all
// comparators are registered.
type Checker struct {
	custom map[reflect.Type]Comparator
}

// NewChecker creates a checker with no custom comparators.
func NewChecker() *Checker {
	return &Checker{custom: make(map[reflect.Type]Comparator)}
}

// Register installs cmp for the runtime type of sample, overriding the
// default comparison for all values of that type. It returns the checker for
// chaining.
func (c *Checker) Register(sample any, cmp Comparator) *Checker {
	c.custom[reflect.TypeOf(sample)] = cmp
	return c
}

// Equals reports whether actual is deeply equal to expected.
func (c *Checker) Equals(expected, actual any) bool {
	if cmp, ok := c.lookup(expected, actual); ok {
		return cmp(expected, actual)
	}
	return reflect.DeepEqual(expected, actual)
}

func (c *Checker) lookup(expected, actual any) (Comparator, bool) {
	if len(c.custom) == 0 || expected == nil || actual == nil {
		return nil, false
	}
	t := reflect.TypeOf(expected)
	if t != reflect.TypeOf(actual) {
		return nil, false
	}
	cmp, ok := c.custom[t]
	return cmp, ok
}

// Describe renders the expected/actual pair for failure messages.
func Describe(expected, actual any) string {
	return fmt.Sprintf("expected %+v (%T), got %+v (%T)", expected, expected, actual, actual)
}
