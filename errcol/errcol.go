package errcol

import (
	"fmt"
	"strings"
)

// Kind classifies a [Diagnostic] into one of the families spec.md §7
// names.
type Kind int

// Diagnostic kinds, grouped by spec.md §7's families.
const (
	// Structural errors: malformed definitions.
	KindUnknownField Kind = iota
	KindMissingRequiredField
	KindTypeMismatch
	KindInvalidSchema
	KindInvalidTypeDefinition

	// Reference errors: resolution failures.
	KindMissingType
	KindImportFailure
	KindDuplicateImportName

	// Constraint errors: value validation failures.
	KindValidationError
	KindRangeValueError
	KindInvalidPropertyValue
	KindInvalidOccurrences

	// Template errors: instantiation failures.
	KindInvalidGroupTarget
	KindMissingRequiredInput
	KindInvalidTemplateVersion
)

// String returns a short label for k, used in diagnostic reports.
func (k Kind) String() string {
	switch k {
	case KindUnknownField:
		return "UnknownField"
	case KindMissingRequiredField:
		return "MissingRequiredField"
	case KindTypeMismatch:
		return "TypeMismatch"
	case KindInvalidSchema:
		return "InvalidSchema"
	case KindInvalidTypeDefinition:
		return "InvalidTypeDefinition"
	case KindMissingType:
		return "MissingType"
	case KindImportFailure:
		return "ImportFailure"
	case KindDuplicateImportName:
		return "DuplicateImportName"
	case KindValidationError:
		return "ValidationError"
	case KindRangeValueError:
		return "RangeValueError"
	case KindInvalidPropertyValue:
		return "InvalidPropertyValue"
	case KindInvalidOccurrences:
		return "InvalidOccurrences"
	case KindInvalidGroupTarget:
		return "InvalidGroupTarget"
	case KindMissingRequiredInput:
		return "MissingRequiredInput"
	case KindInvalidTemplateVersion:
		return "InvalidTemplateVersion"
	}

	return "Unknown"
}

// Location pinpoints where a [Diagnostic] originated, for user-visible
// reports.
type Location struct {
	Source string // document/namespace_id the diagnostic refers to
	Path   string // dotted path within the document, e.g. "node_templates.db.properties.host"
	Line   int    // best-effort line number; 0 if unknown
}

// String renders l as "source:line (path)", omitting empty parts.
func (l Location) String() string {
	var b strings.Builder

	if l.Source != "" {
		b.WriteString(l.Source)
	}

	if l.Line > 0 {
		fmt.Fprintf(&b, ":%d", l.Line)
	}

	if l.Path != "" {
		if b.Len() > 0 {
			b.WriteString(" ")
		}

		fmt.Fprintf(&b, "(%s)", l.Path)
	}

	return b.String()
}

// Diagnostic is one accumulated, non-fatal violation.
type Diagnostic struct {
	Kind     Kind
	Location Location
	Message  string
}

// Error implements the error interface so a Diagnostic can be wrapped or
// compared with errors.Is/As like any other Go error.
func (d *Diagnostic) Error() string {
	loc := d.Location.String()
	if loc == "" {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}

	return fmt.Sprintf("%s: %s: %s", d.Kind, loc, d.Message)
}

// Collector accumulates diagnostics for exactly one parse. The zero value
// is ready to use but not yet started; call [Collector.Start] before the
// first [Collector.Append].
//
// Collector is not safe for concurrent use by multiple goroutines; a
// single parse is single-threaded cooperative per spec.md §5.
type Collector struct {
	started bool
	paused  int
	items   []*Diagnostic
}

// Start begins accumulation. Calling Start on an already-started
// Collector is a no-op; it does not clear previously collected
// diagnostics.
func (c *Collector) Start() {
	c.started = true
}

// Stop ends accumulation. Diagnostics remain available via
// [Collector.Diagnostics] after Stop.
func (c *Collector) Stop() {
	c.started = false
}

// Pause suspends accumulation: diagnostics appended while paused are
// discarded rather than recorded. Pause/Resume nest; Resume only
// reactivates accumulation once every Pause has a matching Resume.
func (c *Collector) Pause() {
	c.paused++
}

// Resume reverses one [Collector.Pause]. Calling Resume more times than
// Pause is a no-op.
func (c *Collector) Resume() {
	if c.paused > 0 {
		c.paused--
	}
}

// Paused reports whether appends are currently being discarded.
func (c *Collector) Paused() bool { return c.paused > 0 }

// Append records d, unless the collector is paused or has not been
// started, in which case it is discarded.
func (c *Collector) Append(d *Diagnostic) {
	if !c.started || c.paused > 0 || d == nil {
		return
	}

	c.items = append(c.items, d)
}

// Appendf is a convenience wrapper constructing a [Diagnostic] from a
// printf-style message.
func (c *Collector) Appendf(kind Kind, loc Location, format string, args ...any) {
	c.Append(&Diagnostic{Kind: kind, Location: loc, Message: fmt.Sprintf(format, args...)})
}

// Diagnostics returns every diagnostic accumulated so far, in the order
// appended. The returned slice must not be mutated by the caller.
func (c *Collector) Diagnostics() []*Diagnostic { return c.items }

// HasErrors reports whether any diagnostic has been recorded.
func (c *Collector) HasErrors() bool { return len(c.items) > 0 }

// Report aggregates every collected diagnostic into a single error, or
// nil if none were recorded. This is what a parse returns at the end
// when verify is true (spec.md §7).
func (c *Collector) Report() error {
	if len(c.items) == 0 {
		return nil
	}

	return &AggregateError{Diagnostics: c.items}
}

// AggregateError wraps every diagnostic from one parse into a single
// error value, the "grouped report" spec.md §4.I and §7 call for.
type AggregateError struct {
	Diagnostics []*Diagnostic
}

// Error renders one line per diagnostic.
func (e *AggregateError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%d error(s):", len(e.Diagnostics))

	for _, d := range e.Diagnostics {
		b.WriteString("\n  - ")
		b.WriteString(d.Error())
	}

	return b.String()
}

// Unwrap exposes every diagnostic to errors.Is/As via Go 1.20+'s
// multi-error unwrapping.
func (e *AggregateError) Unwrap() []error {
	out := make([]error, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		out[i] = d
	}

	return out
}
