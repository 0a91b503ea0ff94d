package analyzer

import (
	"github.com/viant/steplinage/analyzer/linage"
	"github.com/viant/steplinage/pipeline"
)

// GenericAnalyzerName is stamped on steps without a dedicated analyzer
const GenericAnalyzerName = "GenericStepAnalyzer"

// GenericMeta represents settings common to all step types
type GenericMeta struct {
	pipeline.BaseStepMeta `yaml:",inline"`
	Connection            string `yaml:"connection,omitempty"` // External connection used by the step
}

// ConnectionName returns referenced connection
func (m *GenericMeta) ConnectionName() string {
	return m.Connection
}

// GenericAnalyzer handles any step type; field lineage comes from passthrough inference only
type GenericAnalyzer struct {
	baseAnalyzer
}

func (a *GenericAnalyzer) Name() string {
	return GenericAnalyzerName
}

func (a *GenericAnalyzer) SupportedTypes() []string {
	return nil
}

func (a *GenericAnalyzer) NewMeta(step *pipeline.Step) (pipeline.StepMeta, error) {
	meta := &GenericMeta{}
	if err := step.DecodeConfig(meta); err != nil {
		return nil, err
	}
	meta.Step = step
	return meta, nil
}

func (a *GenericAnalyzer) UsedFields(analysis *Analysis) []linage.StepField {
	return nil
}

func (a *GenericAnalyzer) ChangeRecords(analysis *Analysis) ([]*linage.ChangeRecord, error) {
	return nil, nil
}

// Clone returns the receiver, generic analyzer holds no per step state
func (a *GenericAnalyzer) Clone() StepAnalyzer {
	return a
}

// NewGenericAnalyzer creates generic analyzer
func NewGenericAnalyzer(connectionAnalyzer ConnectionAnalyzer) *GenericAnalyzer {
	return &GenericAnalyzer{baseAnalyzer: baseAnalyzer{connectionAnalyzer: connectionAnalyzer}}
}
