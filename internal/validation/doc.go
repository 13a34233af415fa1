// Package validation checks a candidate network definition against structural rules
// and against every network already in the registry.
//
// Validate is pure: it performs no I/O and returns the same violations, in the same
// order, for the same inputs. Apart from a reserved chain id, which is reported on its
// own, every violation is accumulated so a caller sees all problems at once.
package validation
