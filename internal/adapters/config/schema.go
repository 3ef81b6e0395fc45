package config

import (
	"gopkg.in/yaml.v3"
)

// workflowDTO mirrors the loom.yaml document.
type workflowDTO struct {
	Name string  `yaml:"name"`
	On   onDTO   `yaml:"on"`
	Jobs jobsDTO `yaml:"jobs"`
}

type onDTO struct {
	Push pushDTO `yaml:"push"`
}

type pushDTO struct {
	Branches []string `yaml:"branches"`
}

type jobDTO struct {
	Name     string      `yaml:"name"`
	RunsOn   string      `yaml:"runs-on"`
	Strategy strategyDTO `yaml:"strategy"`
	Steps    []stepDTO   `yaml:"steps"`
}

type strategyDTO struct {
	Matrix matrixDTO `yaml:"matrix"`
}

type stepDTO struct {
	Name string `yaml:"name"`
	Uses string `yaml:"uses"`
	Run  string `yaml:"run"`
	If   string `yaml:"if"`
}

type namedJob struct {
	Key string
	Job jobDTO
}

// jobsDTO preserves job declaration order, which yaml mapping decoding into a
// Go map would lose. Emission order of the pipeline depends on it.
type jobsDTO []namedJob

// UnmarshalYAML implements yaml.Unmarshaler.
func (j *jobsDTO) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return &yaml.TypeError{Errors: []string{"jobs must be a mapping"}}
	}
	for i := 0; i < len(node.Content); i += 2 {
		var job jobDTO
		if err := node.Content[i+1].Decode(&job); err != nil {
			return err
		}
		*j = append(*j, namedJob{Key: node.Content[i].Value, Job: job})
	}
	return nil
}

type axisDTO struct {
	Name     string
	Variants []variantDTO
}

// matrixDTO preserves axis declaration order; the first declared axis is the
// outermost expansion loop.
type matrixDTO []axisDTO

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *matrixDTO) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return &yaml.TypeError{Errors: []string{"matrix must be a mapping"}}
	}
	for i := 0; i < len(node.Content); i += 2 {
		var variants []variantDTO
		if err := node.Content[i+1].Decode(&variants); err != nil {
			return err
		}
		*m = append(*m, axisDTO{Name: node.Content[i].Value, Variants: variants})
	}
	return nil
}

// variantDTO accepts either a bare scalar ("ubuntu-latest") or a mapping with
// an explicit enabled flag ({value: redox, enabled: false}).
type variantDTO struct {
	Value   string
	Enabled bool
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *variantDTO) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		v.Enabled = true
		return node.Decode(&v.Value)
	}

	var aux struct {
		Value   string `yaml:"value"`
		Enabled *bool  `yaml:"enabled"`
	}
	if err := node.Decode(&aux); err != nil {
		return err
	}
	v.Value = aux.Value
	v.Enabled = aux.Enabled == nil || *aux.Enabled
	return nil
}
