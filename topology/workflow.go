package topology

import "github.com/onecommons/tosca-parser-go/value"

// Activity kinds (SPEC_FULL.md's fixed decision for spec.md §9's
// flagged open question): every activity normalizes to one of these
// four single-key shorthand forms, call_operation/set_state/inline/
// delegate, regardless of which elaborated form a document used.
// parseActivity takes an activity's first key as its Kind and does not
// reject keys outside these four.
const (
	ActivityCallOperation = "call_operation"
	ActivitySetState      = "set_state"
	ActivityInline        = "inline"
	ActivityDelegate      = "delegate"
)

// Activity is one step in a workflow: a kind, the kind-specific target
// (an operation name, a state name, or a workflow name), and optional
// inputs (grounded on `activities.py`'s `Activity.__init__`, which pops
// `inputs` off the activity mapping before reading the single
// remaining value as the kind's target).
type Activity struct {
	Kind   string
	Target value.Value
	Inputs *value.Mapping
}

// parseActivity reads one single-key activity mapping, e.g.
// `{call_operation: create}` or `{set_state: started}`.
func parseActivity(v value.Value) (Activity, bool) {
	if v.Kind() != value.KindMapping || v.Mapping().Len() == 0 {
		return Activity{}, false
	}

	kind := v.Mapping().Keys()[0]
	raw, _ := v.Mapping().Get(kind)

	a := Activity{Kind: kind, Inputs: value.NewMappingData()}

	if raw.Kind() == value.KindMapping {
		if ins, ok := raw.Mapping().Get("inputs"); ok && ins.Kind() == value.KindMapping {
			a.Inputs = ins.Mapping().Clone()
		}

		// The remaining key (operation/workflow name) after `inputs` is
		// removed is the activity's target.
		for _, k := range raw.Mapping().Keys() {
			if k == "inputs" {
				continue
			}

			t, _ := raw.Mapping().Get(k)
			a.Target = t

			break
		}

		if a.Target.IsNull() {
			a.Target = raw
		}
	} else {
		a.Target = raw
	}

	return a, true
}

func parseActivities(v value.Value) []Activity {
	if v.Kind() != value.KindSequence {
		return nil
	}

	var out []Activity

	for _, item := range v.Sequence() {
		if a, ok := parseActivity(item); ok {
			out = append(out, a)
		}
	}

	return out
}

// Step is one named step of a workflow: an optional node/relationship
// target, activities to run against it, a filter condition, and the
// steps to run next on success or failure.
type Step struct {
	Name               string
	Target             string
	TargetRelationship string
	Filter             value.Value
	Activities         []Activity
	OnSuccess          []string
	OnFailure          []string
}

func parseStep(name string, v value.Value) *Step {
	s := &Step{Name: name}

	if v.Kind() != value.KindMapping {
		return s
	}

	m := v.Mapping()
	s.Target = m.GetOr("target", value.NewNull()).String()
	s.TargetRelationship = m.GetOr("target_relationship", value.NewNull()).String()
	s.Filter = m.GetOr("filter", value.NewNull())
	s.Activities = parseActivities(m.GetOr("activities", value.NewNull()))

	if os, ok := m.Get("on_success"); ok {
		s.OnSuccess = stringList(os)
	}

	if of, ok := m.Get("on_failure"); ok {
		s.OnFailure = stringList(of)
	}

	return s
}

func stringList(v value.Value) []string {
	if v.Kind() != value.KindSequence {
		if v.Kind() == value.KindString {
			return []string{v.String()}
		}

		return nil
	}

	out := make([]string, 0, len(v.Sequence()))
	for _, item := range v.Sequence() {
		out = append(out, item.String())
	}

	return out
}

// Workflow is a named workflow declared under `topology_template.workflows`
// (SPEC_FULL.md's supplemented feature, grounded on `workflow.py`).
type Workflow struct {
	Name          string
	Description   string
	Metadata      value.Value
	Inputs        *value.Mapping
	Preconditions value.Value
	Steps         map[string]*Step
	Outputs       *value.Mapping
}

// ParseWorkflow builds a [Workflow] named name from its raw mapping.
func ParseWorkflow(name string, raw value.Value) *Workflow {
	wf := &Workflow{Name: name, Steps: make(map[string]*Step)}

	if raw.Kind() != value.KindMapping {
		return wf
	}

	m := raw.Mapping()
	wf.Description = m.GetOr("description", value.NewNull()).String()
	wf.Metadata = m.GetOr("metadata", value.NewNull())
	wf.Preconditions = m.GetOr("preconditions", value.NewNull())

	if ins, ok := m.Get("inputs"); ok && ins.Kind() == value.KindMapping {
		wf.Inputs = ins.Mapping().Clone()
	} else {
		wf.Inputs = value.NewMappingData()
	}

	if outs, ok := m.Get("outputs"); ok && outs.Kind() == value.KindMapping {
		wf.Outputs = outs.Mapping().Clone()
	} else {
		wf.Outputs = value.NewMappingData()
	}

	if steps, ok := m.Get("steps"); ok && steps.Kind() == value.KindMapping {
		steps.Mapping().Range(func(stepName string, stepVal value.Value) bool {
			wf.Steps[stepName] = parseStep(stepName, stepVal)

			return true
		})
	}

	return wf
}
