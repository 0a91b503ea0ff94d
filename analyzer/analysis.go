package analyzer

import (
	"github.com/viant/steplinage/analyzer/linage"
	"github.com/viant/steplinage/graph"
	"github.com/viant/steplinage/pipeline"
)

// NoneStep is the target step of output fields of a terminal step
const NoneStep = "_none_"

// Descriptor identifies the step node to create
type Descriptor struct {
	Name      string `yaml:"name"`                // Node name, usually the step name
	Type      string `yaml:"type"`                // Node type tag
	Namespace string `yaml:"namespace,omitempty"` // Node namespace, usually the pipeline node logical id
}

// Analysis holds the state of a single step analysis
type Analysis struct {
	Descriptor *Descriptor
	Meta       pipeline.StepMeta
	Step       *pipeline.Step
	Pipeline   pipeline.Engine
	Store      graph.Store
	Root       *graph.Node
	Inputs     *linage.StepNodes
	Outputs    *linage.StepNodes
	Changes    []*linage.ChangeRecord

	transients map[string]*graph.Node
}

// StepName returns analyzed step name
func (a *Analysis) StepName() string {
	return a.Step.Name
}

// StepFields returns the field for every input step
func (a *Analysis) StepFields(fieldName string) []linage.StepField {
	var result []linage.StepField
	for _, stepName := range a.Inputs.StepNames() {
		result = append(result, linage.NewStepField(stepName, fieldName))
	}
	return result
}

// TransientNodes returns placeholder nodes synthesized for unresolved fields
func (a *Analysis) TransientNodes() map[string]*graph.Node {
	result := make(map[string]*graph.Node, len(a.transients))
	for k, v := range a.transients {
		result[k] = v
	}
	return result
}
