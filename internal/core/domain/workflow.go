// Package domain contains the core domain models for workflow declarations,
// matrix expansion and pipeline results.
package domain

import "go.trai.ch/zerr"

// PushEvent is an external trigger event carrying the branch that was pushed.
type PushEvent struct {
	Branch string
}

// TriggerRule is the set of branch names that activate a workflow on a push.
// Branch names are exact string matches.
type TriggerRule struct {
	Branches []string
}

// Matches reports whether the event activates the workflow.
func (r TriggerRule) Matches(ev PushEvent) bool {
	for _, b := range r.Branches {
		if b == ev.Branch {
			return true
		}
	}
	return false
}

// Variant is a single declared axis value. A disabled variant stays in the
// declaration but is never expanded into a JobSpec.
type Variant struct {
	Value   string
	Enabled bool
}

// Axis is a named dimension of variation with an ordered list of variants.
type Axis struct {
	Name     string
	Variants []Variant
}

// EnabledValues returns the axis values that participate in expansion,
// in declaration order.
func (a Axis) EnabledValues() []string {
	values := make([]string, 0, len(a.Variants))
	for _, v := range a.Variants {
		if v.Enabled {
			values = append(values, v.Value)
		}
	}
	return values
}

// StepKind classifies a step for the job runner.
type StepKind string

const (
	// KindCheckout places the repository snapshot into the job workspace.
	KindCheckout StepKind = "checkout"
	// KindSetup runs a toolchain installation command.
	KindSetup StepKind = "setup"
	// KindRun runs an opaque shell command.
	KindRun StepKind = "run"
)

// Condition restricts a step to jobs whose tuple carries the given axis value.
// The zero value matches every job.
type Condition struct {
	Axis  string
	Value string
}

// IsZero reports whether the condition is unrestricted.
func (c Condition) IsZero() bool {
	return c.Axis == "" && c.Value == ""
}

// Step is one ordered unit of work within a job. Steps execute strictly in
// declaration order.
type Step struct {
	Name    string
	Kind    StepKind
	Command string
	When    Condition
}

// JobTemplate is a declared job before matrix expansion.
type JobTemplate struct {
	Key          string
	NameTemplate string
	RunsOn       string
	Axes         []Axis
	Steps        []Step
}

// Workflow is a fully parsed workflow declaration.
type Workflow struct {
	Name    string
	Trigger TriggerRule
	Jobs    []JobTemplate
}

// Validate checks the structural invariants of the declaration: a non-empty
// trigger, unique values per axis, commands on command steps and step
// conditions that reference declared axes.
func (w *Workflow) Validate() error {
	if len(w.Trigger.Branches) == 0 {
		return ErrNoTriggerBranches
	}

	for _, job := range w.Jobs {
		if err := validateTemplate(&job); err != nil {
			return zerr.With(zerr.Wrap(err, "invalid job declaration"), "job", job.Key)
		}
	}
	return nil
}

func validateTemplate(job *JobTemplate) error {
	if job.RunsOn == "" {
		return ErrMissingRunsOn
	}

	axes := make(map[string]bool, len(job.Axes))
	for _, axis := range job.Axes {
		if axes[axis.Name] {
			return zerr.With(zerr.Wrap(ErrDuplicateAxis, "matrix declares the axis twice"), "axis", axis.Name)
		}
		axes[axis.Name] = true

		seen := make(map[string]bool, len(axis.Variants))
		for _, v := range axis.Variants {
			if seen[v.Value] {
				err := zerr.Wrap(ErrDuplicateAxisValue, "axis declares the value twice")
				err = zerr.With(err, "axis", axis.Name)
				return zerr.With(err, "value", v.Value)
			}
			seen[v.Value] = true
		}
	}

	for _, step := range job.Steps {
		switch step.Kind {
		case KindCheckout:
		case KindSetup, KindRun:
			if step.Command == "" {
				return zerr.With(zerr.Wrap(ErrEmptyStepCommand, "command steps need a command"), "step", step.Name)
			}
		default:
			err := zerr.Wrap(ErrUnknownStepKind, "step kind is not recognized")
			err = zerr.With(err, "step", step.Name)
			return zerr.With(err, "kind", string(step.Kind))
		}

		if !step.When.IsZero() && !axes[step.When.Axis] {
			err := zerr.Wrap(ErrUnknownConditionAxis, "condition references an undeclared axis")
			err = zerr.With(err, "step", step.Name)
			return zerr.With(err, "axis", step.When.Axis)
		}
	}
	return nil
}
