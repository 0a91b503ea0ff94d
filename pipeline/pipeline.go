package pipeline

import (
	"context"
	"fmt"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// Pipeline represents a data flow of steps connected by hops
type Pipeline struct {
	Name        string  `yaml:"name"`                  // Pipeline name
	Namespace   string  `yaml:"namespace,omitempty"`   // Scope used to disambiguate node identities, defaults to Path
	Path        string  `yaml:"path,omitempty"`        // Definition location
	Description string  `yaml:"description,omitempty"` // Free text description
	Steps       []*Step `yaml:"steps"`                 // Steps
	Hops        []*Hop  `yaml:"hops,omitempty"`        // Step connections

	index map[string]*Step
}

// Step represents a single processing unit
type Step struct {
	Name         string    `yaml:"name"`                   // Step name, unique within the pipeline
	Type         string    `yaml:"type"`                   // Step type id
	Copies       int       `yaml:"copies,omitempty"`       // Replica count
	Description  string    `yaml:"description,omitempty"`  // Free text description
	Fields       RowMeta   `yaml:"fields,omitempty"`       // Declared output schema, replaces input fields
	AddFields    RowMeta   `yaml:"addFields,omitempty"`    // Fields appended to input fields
	RemoveFields []string  `yaml:"removeFields,omitempty"` // Input fields not emitted
	Config       yaml.Node `yaml:"config,omitempty"`       // Step type specific settings

	pipeline Engine
}

// Pipeline returns parent pipeline engine
func (s *Step) Pipeline() Engine {
	return s.pipeline
}

// SetPipeline sets parent pipeline engine
func (s *Step) SetPipeline(engine Engine) {
	s.pipeline = engine
}

// DecodeConfig decodes step type specific settings
func (s *Step) DecodeConfig(target interface{}) error {
	if s.Config.Kind == 0 {
		return nil
	}
	if err := s.Config.Decode(target); err != nil {
		return fmt.Errorf("failed to decode %v config: %w", s.Name, err)
	}
	return nil
}

// Hop connects two steps
type Hop struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// PipelineName returns the pipeline name
func (p *Pipeline) PipelineName() string {
	return p.Name
}

// Step returns step by name or nil
func (p *Pipeline) Step(name string) *Step {
	if p.index == nil {
		return nil
	}
	return p.index[name]
}

// PrevStepNames returns predecessor names in hop order
func (p *Pipeline) PrevStepNames(stepName string) []string {
	var result []string
	for _, hop := range p.Hops {
		if hop.To == stepName {
			result = append(result, hop.From)
		}
	}
	return result
}

// NextStepNames returns successor names in hop order
func (p *Pipeline) NextStepNames(stepName string) []string {
	var result []string
	for _, hop := range p.Hops {
		if hop.From == stepName {
			result = append(result, hop.To)
		}
	}
	return result
}

// StepFields returns step output schema
func (p *Pipeline) StepFields(stepName string) (RowMeta, error) {
	return p.stepFields(stepName, map[string]bool{})
}

// PrevStepFields returns merged predecessor fields, the first predecessor wins on duplicated names
func (p *Pipeline) PrevStepFields(stepName string) (RowMeta, error) {
	return p.prevStepFields(stepName, map[string]bool{})
}

// PrevStepFieldsFrom returns fields reaching the step from the given predecessor
func (p *Pipeline) PrevStepFieldsFrom(stepName, prevStepName string) (RowMeta, error) {
	connected := false
	for _, name := range p.PrevStepNames(stepName) {
		if name == prevStepName {
			connected = true
			break
		}
	}
	if !connected {
		return nil, fmt.Errorf("step %v is not connected to %v", prevStepName, stepName)
	}
	return p.StepFields(prevStepName)
}

func (p *Pipeline) prevStepFields(stepName string, visiting map[string]bool) (RowMeta, error) {
	var result RowMeta
	for _, prev := range p.PrevStepNames(stepName) {
		fields, err := p.stepFields(prev, visiting)
		if err != nil {
			return nil, err
		}
		for _, field := range fields {
			if !result.Contains(field.Name) {
				result = append(result, field)
			}
		}
	}
	return result, nil
}

func (p *Pipeline) stepFields(stepName string, visiting map[string]bool) (RowMeta, error) {
	step := p.Step(stepName)
	if step == nil {
		return nil, fmt.Errorf("unknown step: %v", stepName)
	}
	if len(step.Fields) > 0 {
		return step.Fields.clone(), nil
	}
	if visiting[stepName] {
		return nil, fmt.Errorf("cycle detected at step: %v", stepName)
	}
	visiting[stepName] = true
	defer delete(visiting, stepName)
	inputs, err := p.prevStepFields(stepName, visiting)
	if err != nil {
		return nil, err
	}
	removed := map[string]bool{}
	for _, name := range step.RemoveFields {
		removed[name] = true
	}
	var result RowMeta
	for _, field := range inputs {
		if removed[field.Name] || step.AddFields.Contains(field.Name) {
			continue
		}
		clone := *field
		result = append(result, &clone)
	}
	for _, field := range step.AddFields {
		clone := *field
		if clone.Origin == "" {
			clone.Origin = stepName
		}
		result = append(result, &clone)
	}
	return result, nil
}

// Init indexes steps, validates hops and sets step parents
func (p *Pipeline) Init() error {
	if p.Namespace == "" {
		p.Namespace = p.Path
	}
	p.index = make(map[string]*Step, len(p.Steps))
	for _, step := range p.Steps {
		if step.Name == "" {
			return fmt.Errorf("pipeline %v: step name was empty", p.Name)
		}
		if _, ok := p.index[step.Name]; ok {
			return fmt.Errorf("pipeline %v: duplicate step: %v", p.Name, step.Name)
		}
		if step.Copies == 0 {
			step.Copies = 1
		}
		step.SetPipeline(p)
		p.index[step.Name] = step
	}
	for _, hop := range p.Hops {
		if p.index[hop.From] == nil || p.index[hop.To] == nil {
			return fmt.Errorf("pipeline %v: invalid hop %v -> %v", p.Name, hop.From, hop.To)
		}
	}
	return nil
}

// Load loads pipeline definition from YAML
func Load(ctx context.Context, URL string) (*Pipeline, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download pipeline %v: %w", URL, err)
	}
	result := &Pipeline{}
	if err = yaml.Unmarshal(data, result); err != nil {
		return nil, fmt.Errorf("failed to decode pipeline %v: %w", URL, err)
	}
	if result.Path == "" {
		result.Path = URL
	}
	if err = result.Init(); err != nil {
		return nil, err
	}
	return result, nil
}
