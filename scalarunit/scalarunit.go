package scalarunit

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Family identifies which TOSCA scalar-unit type a [Value] belongs to.
type Family int

// The scalar-unit families defined by the TOSCA Simple Profile.
const (
	// FamilySize covers scalar-unit.size: B, KB, MB, GB, TB (and the
	// explicit KiB/MiB/GiB/TiB spellings), all power-of-2 multiples of
	// the byte.
	FamilySize Family = iota
	// FamilyTime covers scalar-unit.time: d, h, m, s, ms, us, ns.
	FamilyTime
	// FamilyFrequency covers scalar-unit.frequency: Hz, kHz, MHz, GHz.
	FamilyFrequency
	// FamilyBitrate covers scalar-unit.bitrate: bps, Kbps, Mbps, Gbps,
	// Tbps and the binary Kibps, Mibps, Gibps, Tibps. Units match
	// case-insensitively, so "Bps" reads as bps; there are no byte-rate
	// units.
	FamilyBitrate
)

// String returns a lowercase label for f.
func (f Family) String() string {
	switch f {
	case FamilySize:
		return "size"
	case FamilyTime:
		return "time"
	case FamilyFrequency:
		return "frequency"
	case FamilyBitrate:
		return "bitrate"
	}

	return "unknown"
}

// ErrInvalidLiteral is returned by [Parse] when the input is not a
// recognized "<number> <unit>" scalar-unit literal.
var ErrInvalidLiteral = errors.New("scalarunit: invalid literal")

// ErrUnknownUnit is returned by [Parse] when the unit suffix does not match
// any family's unit table.
var ErrUnknownUnit = errors.New("scalarunit: unknown unit")

// ErrFamilyMismatch is returned by [Value.ConvertTo] and the "in_range"/
// comparison constraints when two scalar-unit values belong to different
// families and so cannot be compared.
var ErrFamilyMismatch = errors.New("scalarunit: family mismatch")

type unitDef struct {
	family   Family
	toBase   float64 // multiplier to the family's canonical base unit
}

// base units: size -> byte, time -> second, frequency -> Hz, bitrate -> bps
var units = map[string]unitDef{
	// size (binary multiples, matches the original parser's fixed
	// interpretation -- see DESIGN.md)
	"b":   {FamilySize, 1},
	"kb":  {FamilySize, 1024},
	"kib": {FamilySize, 1024},
	"mb":  {FamilySize, 1024 * 1024},
	"mib": {FamilySize, 1024 * 1024},
	"gb":  {FamilySize, 1024 * 1024 * 1024},
	"gib": {FamilySize, 1024 * 1024 * 1024},
	"tb":  {FamilySize, 1024 * 1024 * 1024 * 1024},
	"tib": {FamilySize, 1024 * 1024 * 1024 * 1024},

	// time
	"d":  {FamilyTime, 86400},
	"h":  {FamilyTime, 3600},
	"m":  {FamilyTime, 60},
	"s":  {FamilyTime, 1},
	"ms": {FamilyTime, 1e-3},
	"us": {FamilyTime, 1e-6},
	"ns": {FamilyTime, 1e-9},

	// frequency
	"hz":  {FamilyFrequency, 1},
	"khz": {FamilyFrequency, 1e3},
	"mhz": {FamilyFrequency, 1e6},
	"ghz": {FamilyFrequency, 1e9},

	// bitrate
	"bps":  {FamilyBitrate, 1},
	"kbps": {FamilyBitrate, 1e3},
	"mbps": {FamilyBitrate, 1e6},
	"gbps": {FamilyBitrate, 1e9},
	"tbps": {FamilyBitrate, 1e12},
	"kibps": {FamilyBitrate, 1024},
	"mibps": {FamilyBitrate, 1024 * 1024},
	"gibps": {FamilyBitrate, 1024 * 1024 * 1024},
	"tibps": {FamilyBitrate, 1024 * 1024 * 1024 * 1024},
}

// Value is a parsed scalar-unit literal: a magnitude in its original unit,
// retained alongside the base-unit equivalent used for comparison.
type Value struct {
	magnitude float64
	unit      string
	family    Family
	base      float64
}

// Family reports which scalar-unit family v belongs to.
func (v Value) Family() Family { return v.family }

// Unit returns the unit symbol v was parsed with, normalized to lowercase.
func (v Value) Unit() string { return v.unit }

// Magnitude returns v's numeric value in its original unit.
func (v Value) Magnitude() float64 { return v.magnitude }

// Base returns v's magnitude converted to its family's canonical base unit
// (bytes, seconds, Hz, or bits per second). Constraints compare scalar-unit
// values by comparing their Base results.
func (v Value) Base() float64 { return v.base }

// String renders v as its magnitude and lowercased unit, e.g. "10 mb" for
// a value parsed from "10 MB".
func (v Value) String() string {
	return fmt.Sprintf("%v %s", v.magnitude, v.unit)
}

// Parse parses a scalar-unit literal such as "10 MB" or "500ms". Whitespace
// between the number and the unit is optional. The unit match is
// case-insensitive; the returned Value.Unit is normalized to the casing
// used in the unit table (lowercase).
func Parse(s string) (Value, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Value{}, fmt.Errorf("%w: empty string", ErrInvalidLiteral)
	}

	i := 0
	for i < len(s) && (isDigit(s[i]) || s[i] == '.' || s[i] == '-' || s[i] == '+' ||
		s[i] == 'e' || s[i] == 'E') {
		i++
	}

	if i == 0 {
		return Value{}, fmt.Errorf("%w: %q has no leading number", ErrInvalidLiteral, s)
	}

	numPart := s[:i]
	unitPart := strings.TrimSpace(s[i:])
	if unitPart == "" {
		return Value{}, fmt.Errorf("%w: %q has no unit", ErrInvalidLiteral, s)
	}

	mag, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %q: %w", ErrInvalidLiteral, s, err)
	}

	def, ok := units[strings.ToLower(unitPart)]
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrUnknownUnit, unitPart)
	}

	return Value{
		magnitude: mag,
		unit:      strings.ToLower(unitPart),
		family:    def.family,
		base:      mag * def.toBase,
	}, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// ConvertTo returns v's magnitude expressed in targetUnit. It fails with
// [ErrFamilyMismatch] if targetUnit belongs to a different family than v,
// and [ErrUnknownUnit] if targetUnit isn't recognized at all.
func (v Value) ConvertTo(targetUnit string) (float64, error) {
	def, ok := units[strings.ToLower(targetUnit)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, targetUnit)
	}

	if def.family != v.family {
		return 0, fmt.Errorf("%w: %s vs %s", ErrFamilyMismatch, v.family, def.family)
	}

	return v.base / def.toBase, nil
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater than
// other, comparing in base-unit terms. It returns [ErrFamilyMismatch] when
// the two values belong to different families.
func Compare(v, other Value) (int, error) {
	if v.family != other.family {
		return 0, fmt.Errorf("%w: %s vs %s", ErrFamilyMismatch, v.family, other.family)
	}

	switch {
	case math.Abs(v.base-other.base) < 1e-9:
		return 0, nil
	case v.base < other.base:
		return -1, nil
	default:
		return 1, nil
	}
}
