// Package params provides single-parameter get/set access to the flat
// voltcalc configuration file. Each parameter occupies one line with the
// exact shape `NAME = VALUE` and is pre-declared: Set updates existing
// lines only and never creates or deletes parameters. Values round-trip
// through the typeconv codec, so a parameter written as Decimal('0.4')
// reads back as an arbitrary-precision decimal.
//
// The read-substitute-rewrite cycle is not safe for concurrent writers.
// The deployment model is a single process with a single user; callers
// that need concurrent access must serialize writes externally.
package params
