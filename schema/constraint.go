package schema

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/onecommons/tosca-parser-go/scalarunit"
	"github.com/onecommons/tosca-parser-go/value"
)

// ErrUnknownConstraint is returned by [New] when the constraint kind
// (the single key of a constraint mapping) is not recognized.
var ErrUnknownConstraint = errors.New("schema: unknown constraint kind")

// ErrInvalidConstraintConfig is returned when a constraint's own argument
// is malformed (e.g. in_range given other than two bounds).
var ErrInvalidConstraintConfig = errors.New("schema: invalid constraint configuration")

// ErrConstraintFailed is the sentinel wrapped into every constraint
// validation failure, so callers can errors.Is against it regardless of
// which constraint kind failed.
var ErrConstraintFailed = errors.New("schema: constraint failed")

// scalarUnitTypes names the property types whose values require
// scalar-unit normalization before numeric comparison (spec.md §4.C).
var scalarUnitTypes = map[string]bool{
	"scalar-unit.size":      true,
	"scalar-unit.time":      true,
	"scalar-unit.frequency": true,
	"scalar-unit.bitrate":   true,
}

// Constraint is one property-value validator, bound to a property type at
// construction (spec.md §3 "Constraint").
type Constraint interface {
	// Name returns the constraint's TOSCA key, e.g. "greater_than".
	Name() string
	// Validate checks v against the constraint's configuration. It
	// returns nil when v satisfies the constraint, when v is an
	// intrinsic function expression (validated vacuously per spec.md
	// §9), or wraps [ErrConstraintFailed] otherwise.
	Validate(v value.Value) error
}

// UnboundedSentinel is the string TOSCA documents use in place of a
// numeric bound in in_range constraints (and requirement occurrences) to
// mean "no limit on this side." Length constraints take an integer only.
const UnboundedSentinel = "UNBOUNDED"

// New constructs the Constraint named kind for property type propType,
// configured by arg (the constraint mapping's value). kind is one of:
// equal, greater_than, greater_or_equal, less_than, less_or_equal,
// in_range, valid_values, length, min_length, max_length, pattern,
// schema.
func New(kind, propType string, arg value.Value) (Constraint, error) {
	switch kind {
	case "equal":
		return &comparisonConstraint{name: kind, propType: propType, op: cmpEqual, bound: arg}, nil
	case "greater_than":
		return &comparisonConstraint{name: kind, propType: propType, op: cmpGreater, bound: arg}, nil
	case "greater_or_equal":
		return &comparisonConstraint{name: kind, propType: propType, op: cmpGreaterOrEqual, bound: arg}, nil
	case "less_than":
		return &comparisonConstraint{name: kind, propType: propType, op: cmpLess, bound: arg}, nil
	case "less_or_equal":
		return &comparisonConstraint{name: kind, propType: propType, op: cmpLessOrEqual, bound: arg}, nil
	case "in_range":
		return newInRange(propType, arg)
	case "valid_values":
		return newValidValues(arg)
	case "length":
		return newLengthConstraint(kind, arg)
	case "min_length":
		return newLengthConstraint(kind, arg)
	case "max_length":
		return newLengthConstraint(kind, arg)
	case "pattern":
		return newPatternConstraint(arg)
	case "schema":
		return newSchemaConstraint(propType, arg)
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownConstraint, kind)
}

func failf(name string, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrConstraintFailed, name, fmt.Sprintf(format, args...))
}

// --- comparison (equal/greater_than/greater_or_equal/less_than/less_or_equal) ---

type cmpOp int

const (
	cmpEqual cmpOp = iota
	cmpGreater
	cmpGreaterOrEqual
	cmpLess
	cmpLessOrEqual
)

type comparisonConstraint struct {
	name     string
	propType string
	op       cmpOp
	bound    value.Value
}

func (c *comparisonConstraint) Name() string { return c.name }

func (c *comparisonConstraint) Validate(v value.Value) error {
	if IsFunction(v) {
		return nil
	}

	cmp, err := compareValues(c.propType, v, c.bound)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrConstraintFailed, c.name, err)
	}

	ok := false

	switch c.op {
	case cmpEqual:
		ok = cmp == 0
	case cmpGreater:
		ok = cmp > 0
	case cmpGreaterOrEqual:
		ok = cmp >= 0
	case cmpLess:
		ok = cmp < 0
	case cmpLessOrEqual:
		ok = cmp <= 0
	}

	if !ok {
		return failf(c.name, "%v does not satisfy %s %v", v.Native(), c.name, c.bound.Native())
	}

	return nil
}

// compareValues compares a and b as numbers, normalizing through
// scalarunit first when propType names a scalar-unit family.
func compareValues(propType string, a, b value.Value) (int, error) {
	if scalarUnitTypes[propType] {
		av, err := scalarunit.Parse(a.String())
		if err != nil {
			return 0, err
		}

		bv, err := scalarunit.Parse(b.String())
		if err != nil {
			return 0, err
		}

		return scalarunit.Compare(av, bv)
	}

	if a.Kind() == value.KindString || b.Kind() == value.KindString {
		switch {
		case a.String() == b.String():
			return 0, nil
		case a.String() < b.String():
			return -1, nil
		default:
			return 1, nil
		}
	}

	af, bf := a.Float(), b.Float()

	switch {
	case af == bf:
		return 0, nil
	case af < bf:
		return -1, nil
	default:
		return 1, nil
	}
}

// --- in_range ---

type inRangeConstraint struct {
	propType      string
	min, max      value.Value
	minUnbounded  bool
	maxUnbounded  bool
}

func newInRange(propType string, arg value.Value) (Constraint, error) {
	if arg.Kind() != value.KindSequence || len(arg.Sequence()) != 2 {
		return nil, fmt.Errorf("%w: in_range requires a 2-element sequence", ErrInvalidConstraintConfig)
	}

	seq := arg.Sequence()
	c := &inRangeConstraint{propType: propType, min: seq[0], max: seq[1]}

	if seq[0].Kind() == value.KindString && seq[0].String() == UnboundedSentinel {
		c.minUnbounded = true
	}

	if seq[1].Kind() == value.KindString && seq[1].String() == UnboundedSentinel {
		c.maxUnbounded = true
	}

	return c, nil
}

func (c *inRangeConstraint) Name() string { return "in_range" }

func (c *inRangeConstraint) Validate(v value.Value) error {
	if IsFunction(v) {
		return nil
	}

	if !c.minUnbounded {
		cmp, err := compareValues(c.propType, v, c.min)
		if err != nil {
			return fmt.Errorf("%w: in_range: %w", ErrConstraintFailed, err)
		}

		if cmp < 0 {
			return failf("in_range", "%v is below minimum %v", v.Native(), c.min.Native())
		}
	}

	if !c.maxUnbounded {
		cmp, err := compareValues(c.propType, v, c.max)
		if err != nil {
			return fmt.Errorf("%w: in_range: %w", ErrConstraintFailed, err)
		}

		if cmp > 0 {
			return failf("in_range", "%v is above maximum %v", v.Native(), c.max.Native())
		}
	}

	return nil
}

// --- valid_values ---

type validValuesConstraint struct {
	allowed []value.Value
}

func newValidValues(arg value.Value) (Constraint, error) {
	if arg.Kind() != value.KindSequence {
		return nil, fmt.Errorf("%w: valid_values requires a sequence", ErrInvalidConstraintConfig)
	}

	return &validValuesConstraint{allowed: arg.Sequence()}, nil
}

func (c *validValuesConstraint) Name() string { return "valid_values" }

func (c *validValuesConstraint) Validate(v value.Value) error {
	if IsFunction(v) {
		return nil
	}

	candidates := []value.Value{v}
	if v.Kind() == value.KindSequence {
		candidates = v.Sequence()
	}

	for _, cand := range candidates {
		found := false

		for _, a := range c.allowed {
			if value.Equal(cand, a) {
				found = true

				break
			}
		}

		if !found {
			return failf("valid_values", "%v is not one of the allowed values", cand.Native())
		}
	}

	return nil
}

// --- length / min_length / max_length ---

type lengthConstraint struct {
	name string
	n    int
}

func newLengthConstraint(name string, arg value.Value) (Constraint, error) {
	if arg.Kind() != value.KindInt {
		return nil, fmt.Errorf("%w: %s requires an integer", ErrInvalidConstraintConfig, name)
	}

	return &lengthConstraint{name: name, n: int(arg.Int())}, nil
}

func (c *lengthConstraint) Name() string { return c.name }

func valueLength(v value.Value) int {
	switch v.Kind() {
	case value.KindString:
		return len(v.String())
	case value.KindSequence:
		return len(v.Sequence())
	case value.KindMapping:
		return v.Mapping().Len()
	default:
		return len(v.String())
	}
}

func (c *lengthConstraint) Validate(v value.Value) error {
	if IsFunction(v) {
		return nil
	}

	n := valueLength(v)

	switch c.name {
	case "length":
		if n != c.n {
			return failf(c.name, "length %d != %d", n, c.n)
		}
	case "min_length":
		if n < c.n {
			return failf(c.name, "length %d < minimum %d", n, c.n)
		}
	case "max_length":
		if n > c.n {
			return failf(c.name, "length %d > maximum %d", n, c.n)
		}
	}

	return nil
}

// --- pattern ---

type patternConstraint struct {
	re  *regexp.Regexp
	src string
}

func newPatternConstraint(arg value.Value) (Constraint, error) {
	src := arg.String()

	re, err := regexp.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("%w: pattern: %w", ErrInvalidConstraintConfig, err)
	}

	return &patternConstraint{re: re, src: src}, nil
}

func (c *patternConstraint) Name() string { return "pattern" }

// Validate requires a full match (spec.md §4.C: "pattern requires a full
// match, not merely a prefix"), matching the original parser's check that
// the match ends exactly at the end of the string.
func (c *patternConstraint) Validate(v value.Value) error {
	if IsFunction(v) {
		return nil
	}

	s := v.String()

	loc := c.re.FindStringIndex(s)
	if loc == nil || loc[0] != 0 || loc[1] != len(s) {
		return failf("pattern", "%q does not fully match /%s/", s, c.src)
	}

	return nil
}
