package analyzer

import (
	"fmt"
	"github.com/viant/steplinage/analyzer/linage"
	"github.com/viant/steplinage/pipeline"
	"strings"
)

const (
	CalculatorAnalyzerName = "CalculatorStepAnalyzer"
	CalculatorType         = "Calculator"
)

// Calculation represents a single calculated field
type Calculation struct {
	FieldName string `yaml:"fieldName"`           // Result field
	Type      string `yaml:"type"`                // Calculation type, e.g. ADD, CONSTANT
	FieldA    string `yaml:"fieldA,omitempty"`    // First argument
	FieldB    string `yaml:"fieldB,omitempty"`    // Second argument
	FieldC    string `yaml:"fieldC,omitempty"`    // Third argument
	ValueType string `yaml:"valueType,omitempty"` // Result data type
	Remove    bool   `yaml:"remove,omitempty"`    // Temporary result not emitted by the step
}

// Arguments returns non empty argument fields, an argument may pin its origin step with step:field
func (c *Calculation) Arguments() []string {
	var result []string
	for _, arg := range []string{c.FieldA, c.FieldB, c.FieldC} {
		if arg != "" {
			result = append(result, arg)
		}
	}
	return result
}

func (c *Calculation) String() string {
	return c.Type + "(" + strings.Join(c.Arguments(), ", ") + ")"
}

// CalculatorMeta represents calculator step settings
type CalculatorMeta struct {
	pipeline.BaseStepMeta `yaml:",inline"`
	Calculations          []*Calculation `yaml:"calculations,omitempty"`
}

// CalculatorAnalyzer derives calculated fields from their arguments
type CalculatorAnalyzer struct {
	baseAnalyzer
}

func (a *CalculatorAnalyzer) Name() string {
	return CalculatorAnalyzerName
}

func (a *CalculatorAnalyzer) SupportedTypes() []string {
	return []string{CalculatorType}
}

func (a *CalculatorAnalyzer) NewMeta(step *pipeline.Step) (pipeline.StepMeta, error) {
	meta := &CalculatorMeta{}
	if err := step.DecodeConfig(meta); err != nil {
		return nil, err
	}
	meta.Step = step
	return meta, nil
}

func (a *CalculatorAnalyzer) meta(analysis *Analysis) (*CalculatorMeta, error) {
	meta, ok := analysis.Meta.(*CalculatorMeta)
	if !ok {
		return nil, fmt.Errorf("unsupported meta: %T", analysis.Meta)
	}
	return meta, nil
}

// UsedFields returns calculation arguments from every input step
func (a *CalculatorAnalyzer) UsedFields(analysis *Analysis) []linage.StepField {
	meta, err := a.meta(analysis)
	if err != nil {
		return nil
	}
	var result []linage.StepField
	for _, calculation := range meta.Calculations {
		for _, arg := range calculation.Arguments() {
			ref := linage.ParseStepField(arg)
			if ref.StepName != "" {
				result = append(result, ref)
				continue
			}
			result = append(result, analysis.StepFields(ref.FieldName)...)
		}
	}
	return result
}

// ChangeRecords returns argument to result records, a calculation without arguments derives from itself
func (a *CalculatorAnalyzer) ChangeRecords(analysis *Analysis) ([]*linage.ChangeRecord, error) {
	meta, err := a.meta(analysis)
	if err != nil {
		return nil, err
	}
	var result []*linage.ChangeRecord
	for _, calculation := range meta.Calculations {
		if calculation.FieldName == "" {
			return nil, fmt.Errorf("calculation %v has no result field", calculation.Type)
		}
		op := linage.NewOperation(linage.OpCalculation, linage.ChangeData, calculation.String())
		args := calculation.Arguments()
		if len(args) == 0 {
			args = []string{calculation.FieldName}
		}
		for _, arg := range args {
			ref := linage.ParseStepField(arg)
			record := linage.NewChangeRecord(ref.FieldName, calculation.FieldName, op)
			record.OriginalStepName = ref.StepName
			result = append(result, record)
		}
	}
	return result, nil
}

// RemovedFields returns temporary calculation results that are not emitted by the step
func (a *CalculatorAnalyzer) RemovedFields(analysis *Analysis) []string {
	meta, err := a.meta(analysis)
	if err != nil {
		return nil
	}
	var result []string
	for _, calculation := range meta.Calculations {
		if calculation.Remove {
			result = append(result, calculation.FieldName)
		}
	}
	return result
}

// Clone returns analyzer sharing the connection analyzer
func (a *CalculatorAnalyzer) Clone() StepAnalyzer {
	return NewCalculatorAnalyzer(a.connectionAnalyzer)
}

// NewCalculatorAnalyzer creates calculator analyzer
func NewCalculatorAnalyzer(connectionAnalyzer ConnectionAnalyzer) *CalculatorAnalyzer {
	return &CalculatorAnalyzer{baseAnalyzer: baseAnalyzer{connectionAnalyzer: connectionAnalyzer}}
}
