// Package config provides the workflow declaration loader for loom.
package config

import (
	"os"
	"strings"

	"go.loomci.dev/loom/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the workflow file looked up in the working directory.
const DefaultFilename = "loom.yaml"

// FileLoader implements ports.ConfigLoader using a YAML file.
type FileLoader struct{}

// Load reads the declaration from path, defaulting to loom.yaml in the
// working directory when path is empty.
func (l *FileLoader) Load(path string) (*domain.Workflow, error) {
	if path == "" {
		path = DefaultFilename
	}
	return Load(path)
}

// Load reads a workflow file from the given path and returns the validated
// domain workflow.
func Load(path string) (*domain.Workflow, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read workflow file")
	}

	var dto workflowDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, zerr.Wrap(err, "failed to parse workflow file")
	}

	w := &domain.Workflow{
		Name:    dto.Name,
		Trigger: domain.TriggerRule{Branches: dto.On.Push.Branches},
	}

	for _, nj := range dto.Jobs {
		tpl, err := toTemplate(nj)
		if err != nil {
			return nil, zerr.With(err, "job", nj.Key)
		}
		w.Jobs = append(w.Jobs, tpl)
	}

	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

func toTemplate(nj namedJob) (domain.JobTemplate, error) {
	tpl := domain.JobTemplate{
		Key:          nj.Key,
		NameTemplate: nj.Job.Name,
		RunsOn:       nj.Job.RunsOn,
	}

	for _, axis := range nj.Job.Strategy.Matrix {
		variants := make([]domain.Variant, len(axis.Variants))
		for i, v := range axis.Variants {
			variants[i] = domain.Variant{Value: v.Value, Enabled: v.Enabled}
		}
		tpl.Axes = append(tpl.Axes, domain.Axis{Name: axis.Name, Variants: variants})

		// A job with an os axis runs on that os unless told otherwise.
		if axis.Name == "os" && tpl.RunsOn == "" {
			tpl.RunsOn = "{os}"
		}
	}

	for _, step := range nj.Job.Steps {
		s, err := toStep(step)
		if err != nil {
			return domain.JobTemplate{}, err
		}
		tpl.Steps = append(tpl.Steps, s)
	}

	return tpl, nil
}

func toStep(dto stepDTO) (domain.Step, error) {
	step := domain.Step{
		Name:    dto.Name,
		Command: dto.Run,
	}

	switch dto.Uses {
	case "checkout":
		step.Kind = domain.KindCheckout
	case "toolchain":
		step.Kind = domain.KindSetup
	case "":
		step.Kind = domain.KindRun
	default:
		err := zerr.Wrap(domain.ErrUnknownStepKind, "unsupported uses value")
		err = zerr.With(err, "step", dto.Name)
		return domain.Step{}, zerr.With(err, "uses", dto.Uses)
	}

	if step.Name == "" {
		step.Name = defaultStepName(step)
	}

	if dto.If != "" {
		cond, err := parseCondition(dto.If)
		if err != nil {
			return domain.Step{}, zerr.With(err, "step", step.Name)
		}
		step.When = cond
	}

	return step, nil
}

func defaultStepName(step domain.Step) string {
	if step.Kind == domain.KindCheckout {
		return "checkout"
	}
	return step.Command
}

// parseCondition parses the "axis == value" form of an if expression.
func parseCondition(expr string) (domain.Condition, error) {
	axis, value, ok := strings.Cut(expr, "==")
	if !ok {
		return domain.Condition{}, zerr.With(zerr.New("condition must have the form 'axis == value'"), "condition", expr)
	}

	cond := domain.Condition{
		Axis:  strings.TrimSpace(axis),
		Value: strings.TrimSpace(value),
	}
	if cond.Axis == "" || cond.Value == "" {
		return domain.Condition{}, zerr.With(zerr.New("condition must have the form 'axis == value'"), "condition", expr)
	}
	return cond, nil
}
