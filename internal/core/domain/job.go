package domain

// AxisValue is one resolved (axis, value) pair of a job's tuple.
type AxisValue struct {
	Axis  string
	Value string
}

// JobSpec is one concrete, fully resolved unit of work produced by combining
// one enabled value from each axis of a job template. It is immutable once
// emitted and carries everything a runner needs: the tuple, the runner label
// and the ordered step list.
type JobSpec struct {
	// ID is a stable identifier derived from the template key and the tuple.
	// It keys workspaces, job status and log correlation.
	ID string

	// Name is the display name with axis placeholders substituted.
	Name string

	// Template is the key of the job template this spec was expanded from.
	Template string

	// Runner is the execution environment label requested from the
	// provisioner, e.g. an operating system identifier.
	Runner string

	Values []AxisValue
	Steps  []Step
}

// Value returns the tuple value for the named axis.
func (j JobSpec) Value(axis string) (string, bool) {
	for _, av := range j.Values {
		if av.Axis == axis {
			return av.Value, true
		}
	}
	return "", false
}

// StepMatches reports whether the step's condition holds for this job's tuple.
func (j JobSpec) StepMatches(step Step) bool {
	if step.When.IsZero() {
		return true
	}
	v, ok := j.Value(step.When.Axis)
	return ok && v == step.When.Value
}
