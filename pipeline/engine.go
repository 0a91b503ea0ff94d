package pipeline

import "fmt"

// Engine exposes step topology and field schemas of a pipeline
type Engine interface {
	// PipelineName returns the pipeline name
	PipelineName() string
	// PrevStepNames returns predecessor step names
	PrevStepNames(stepName string) []string
	// PrevStepFields returns merged fields of all predecessors
	PrevStepFields(stepName string) (RowMeta, error)
	// PrevStepFieldsFrom returns fields reaching the step from the given predecessor
	PrevStepFieldsFrom(stepName, prevStepName string) (RowMeta, error)
	// NextStepNames returns successor step names
	NextStepNames(stepName string) []string
	// StepFields returns the step output schema
	StepFields(stepName string) (RowMeta, error)
}

// StepMeta represents step specific settings owned by a step
type StepMeta interface {
	ParentStep() *Step
}

// BaseStepMeta implements StepMeta, embed it in step specific settings
type BaseStepMeta struct {
	Step *Step `yaml:"-"`
}

// ParentStep returns owning step
func (m *BaseStepMeta) ParentStep() *Step {
	if m == nil {
		return nil
	}
	return m.Step
}

// NewBaseStepMeta creates step meta without step specific settings
func NewBaseStepMeta(step *Step) *BaseStepMeta {
	return &BaseStepMeta{Step: step}
}

// TypeResolver resolves step type id to display name
type TypeResolver interface {
	Resolve(typeID string) (string, error)
}

// TypeNames resolves step types from a map
type TypeNames map[string]string

// Resolve returns display name
func (t TypeNames) Resolve(typeID string) (string, error) {
	name, ok := t[typeID]
	if !ok {
		return "", fmt.Errorf("unknown step type: %v", typeID)
	}
	return name, nil
}
