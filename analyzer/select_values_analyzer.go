package analyzer

import (
	"fmt"
	"github.com/viant/steplinage/analyzer/linage"
	"github.com/viant/steplinage/graph"
	"github.com/viant/steplinage/pipeline"
)

const (
	SelectValuesAnalyzerName = "SelectValuesStepAnalyzer"
	SelectValuesType         = "SelectValues"
)

// SelectField represents a selected, optionally renamed or resized field
type SelectField struct {
	Name      string `yaml:"name"`                // Input field name
	Rename    string `yaml:"rename,omitempty"`    // Output field name
	Length    int    `yaml:"length,omitempty"`    // New length, 0 keeps the input length
	Precision int    `yaml:"precision,omitempty"` // New precision, 0 keeps the input precision
}

// MetaField represents a field metadata change
type MetaField struct {
	SelectField `yaml:",inline"`
	Type        string `yaml:"type,omitempty"` // New data type
}

// SelectValuesMeta represents select values step settings
type SelectValuesMeta struct {
	pipeline.BaseStepMeta `yaml:",inline"`
	Fields                []*SelectField `yaml:"fields,omitempty"` // Selected fields
	Remove                []string       `yaml:"remove,omitempty"` // Removed fields
	Meta                  []*MetaField   `yaml:"meta,omitempty"`   // Metadata changes
}

// SelectValuesAnalyzer derives lineage of selected, renamed and retyped fields
type SelectValuesAnalyzer struct {
	baseAnalyzer
}

func (a *SelectValuesAnalyzer) Name() string {
	return SelectValuesAnalyzerName
}

func (a *SelectValuesAnalyzer) SupportedTypes() []string {
	return []string{SelectValuesType}
}

func (a *SelectValuesAnalyzer) NewMeta(step *pipeline.Step) (pipeline.StepMeta, error) {
	meta := &SelectValuesMeta{}
	if err := step.DecodeConfig(meta); err != nil {
		return nil, err
	}
	meta.Step = step
	return meta, nil
}

func (a *SelectValuesAnalyzer) meta(analysis *Analysis) (*SelectValuesMeta, error) {
	meta, ok := analysis.Meta.(*SelectValuesMeta)
	if !ok {
		return nil, fmt.Errorf("unsupported meta: %T", analysis.Meta)
	}
	return meta, nil
}

// UsedFields returns selected and retyped fields from every input step
func (a *SelectValuesAnalyzer) UsedFields(analysis *Analysis) []linage.StepField {
	meta, err := a.meta(analysis)
	if err != nil {
		return nil
	}
	var result []linage.StepField
	for _, field := range meta.Fields {
		result = append(result, analysis.StepFields(field.Name)...)
	}
	for _, field := range meta.Meta {
		result = append(result, analysis.StepFields(field.Name)...)
	}
	return result
}

// ChangeRecords returns records for fields that were renamed, resized or retyped
func (a *SelectValuesAnalyzer) ChangeRecords(analysis *Analysis) ([]*linage.ChangeRecord, error) {
	meta, err := a.meta(analysis)
	if err != nil {
		return nil, err
	}
	var result []*linage.ChangeRecord
	for _, field := range meta.Fields {
		record := selectRecord(field)
		if record.HasDelta() {
			result = append(result, record)
		}
	}
	for _, field := range meta.Meta {
		record := selectRecord(&field.SelectField)
		if field.Type != "" {
			if fromType := inputDataType(analysis, field.Name); fromType != field.Type {
				record.AddOperation(linage.NewOperation(linage.OpModifyType, linage.ChangeMetadata, fromType+" -> "+field.Type))
			}
		}
		if record.HasDelta() {
			result = append(result, record)
		}
	}
	return result, nil
}

func selectRecord(field *SelectField) *linage.ChangeRecord {
	changed := field.Name
	if field.Rename != "" {
		changed = field.Rename
	}
	record := linage.NewChangeRecord(field.Name, changed)
	if changed != field.Name {
		record.AddOperation(linage.NewOperation(linage.OpModifyName, linage.ChangeMetadata, field.Name+" -> "+changed))
	}
	if field.Length > 0 {
		record.AddOperation(linage.NewOperation(linage.OpModifyLen, linage.ChangeMetadata, fmt.Sprintf("%v", field.Length)))
	}
	if field.Precision > 0 {
		record.AddOperation(linage.NewOperation(linage.OpModifyPrec, linage.ChangeMetadata, fmt.Sprintf("%v", field.Precision)))
	}
	return record
}

func inputDataType(analysis *Analysis, fieldName string) string {
	for _, node := range analysis.Inputs.FindNodes(fieldName) {
		if dataType := node.StringProperty(graph.PropertyDataType); dataType != "" {
			return dataType
		}
	}
	return ""
}

// Clone returns analyzer sharing the connection analyzer
func (a *SelectValuesAnalyzer) Clone() StepAnalyzer {
	return NewSelectValuesAnalyzer(a.connectionAnalyzer)
}

// NewSelectValuesAnalyzer creates select values analyzer
func NewSelectValuesAnalyzer(connectionAnalyzer ConnectionAnalyzer) *SelectValuesAnalyzer {
	return &SelectValuesAnalyzer{baseAnalyzer: baseAnalyzer{connectionAnalyzer: connectionAnalyzer}}
}
