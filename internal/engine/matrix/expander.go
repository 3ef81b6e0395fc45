// Package matrix implements the build-matrix expander.
//
// Expansion is a pure function of the declaration: the cartesian product of
// every enabled axis value, emitted in axis declaration order so that two
// runs of the same workflow produce the same job sequence.
package matrix

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.loomci.dev/loom/internal/core/domain"
)

// ExpandWorkflow expands every job template of the workflow, in declaration
// order, into concrete job specifications.
func ExpandWorkflow(w *domain.Workflow) []domain.JobSpec {
	var jobs []domain.JobSpec
	for _, tpl := range w.Jobs {
		jobs = append(jobs, Expand(tpl)...)
	}
	return jobs
}

// Expand produces one JobSpec per combination of enabled axis values. The
// first declared axis is the outermost loop. A template without axes expands
// to zero jobs, as does an axis with every variant disabled.
func Expand(tpl domain.JobTemplate) []domain.JobSpec {
	if len(tpl.Axes) == 0 {
		return nil
	}

	axes := make([][]string, len(tpl.Axes))
	total := 1
	for i, axis := range tpl.Axes {
		axes[i] = axis.EnabledValues()
		total *= len(axes[i])
	}
	if total == 0 {
		return nil
	}

	jobs := make([]domain.JobSpec, 0, total)
	indices := make([]int, len(axes))

	for {
		tuple := make([]domain.AxisValue, len(axes))
		for i, axis := range tpl.Axes {
			tuple[i] = domain.AxisValue{Axis: axis.Name, Value: axes[i][indices[i]]}
		}
		jobs = append(jobs, newJobSpec(tpl, tuple))

		// Advance the odometer, least significant axis last.
		i := len(indices) - 1
		for ; i >= 0; i-- {
			indices[i]++
			if indices[i] < len(axes[i]) {
				break
			}
			indices[i] = 0
		}
		if i < 0 {
			break
		}
	}

	return jobs
}

func newJobSpec(tpl domain.JobTemplate, tuple []domain.AxisValue) domain.JobSpec {
	steps := make([]domain.Step, len(tpl.Steps))
	copy(steps, tpl.Steps)

	return domain.JobSpec{
		ID:       jobID(tpl.Key, tuple),
		Name:     displayName(tpl, tuple),
		Template: tpl.Key,
		Runner:   Substitute(tpl.RunsOn, tuple),
		Values:   tuple,
		Steps:    steps,
	}
}

// Substitute replaces {axis} placeholders in the template with tuple values.
func Substitute(template string, tuple []domain.AxisValue) string {
	out := template
	for _, av := range tuple {
		out = strings.ReplaceAll(out, "{"+av.Axis+"}", av.Value)
	}
	return out
}

func displayName(tpl domain.JobTemplate, tuple []domain.AxisValue) string {
	if tpl.NameTemplate != "" {
		return Substitute(tpl.NameTemplate, tuple)
	}
	if len(tuple) == 0 {
		return tpl.Key
	}

	values := make([]string, len(tuple))
	for i, av := range tuple {
		values[i] = av.Value
	}
	return fmt.Sprintf("%s (%s)", tpl.Key, strings.Join(values, ", "))
}

// jobID derives a stable identifier from the template key and the tuple.
// It keys workspaces and status tracking across a run.
func jobID(key string, tuple []domain.AxisValue) string {
	h := xxhash.New()
	_, _ = h.WriteString(key)
	for _, av := range tuple {
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(av.Axis)
		_, _ = h.WriteString("=")
		_, _ = h.WriteString(av.Value)
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
