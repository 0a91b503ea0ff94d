package linage

import (
	"strings"
)

// Operation represents a named field transformation
type Operation struct {
	Name        string        `yaml:"name"`                  // Operation name, e.g. modifyName
	Category    Category      `yaml:"category,omitempty"`    // changeMetadata or changeData
	Type        OperationType `yaml:"type,omitempty"`        // METADATA or DATA
	Description string        `yaml:"description,omitempty"` // Human readable detail, e.g. amt -> amount
}

func (o *Operation) String() string {
	if o.Description == "" {
		return o.Name
	}
	return o.Name + ": " + o.Description
}

// NewOperation creates an operation
func NewOperation(name string, category Category, description string) *Operation {
	op := &Operation{Name: name, Category: category, Description: description}
	switch category {
	case ChangeMetadata:
		op.Type = Metadata
	case ChangeData:
		op.Type = Data
	}
	return op
}

// Operations represents ordered operations
type Operations []*Operation

// String renders operations summary, e.g. [rename] or [modifyName: amt -> amount, modifyType: String -> Integer]
func (o Operations) String() string {
	builder := &strings.Builder{}
	builder.WriteString("[")
	for i, op := range o {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(op.String())
	}
	builder.WriteString("]")
	return builder.String()
}

// ChangeRecord declares that an original field became a changed field
type ChangeRecord struct {
	OriginalEntityName string     `yaml:"originalEntityName"`         // Original field name
	OriginalStepName   string     `yaml:"originalStepName,omitempty"` // Origin step, empty matches any input step
	ChangedEntityName  string     `yaml:"changedEntityName"`          // Changed field name
	ChangedStepName    string     `yaml:"changedStepName,omitempty"`  // Target step, empty matches any output step
	Operations         Operations `yaml:"operations,omitempty"`       // Ordered transformations
}

// OriginalField returns original step field
func (r *ChangeRecord) OriginalField() StepField {
	return NewStepField(r.OriginalStepName, r.OriginalEntityName)
}

// ChangedField returns changed step field
func (r *ChangeRecord) ChangedField() StepField {
	return NewStepField(r.ChangedStepName, r.ChangedEntityName)
}

// AddOperation appends an operation
func (r *ChangeRecord) AddOperation(op *Operation) {
	if op == nil {
		return
	}
	r.Operations = append(r.Operations, op)
}

// HasDelta returns true when field was renamed or transformed
func (r *ChangeRecord) HasDelta() bool {
	return r.OriginalEntityName != r.ChangedEntityName || len(r.Operations) > 0
}

// Key returns identity used to deduplicate records
func (r *ChangeRecord) Key() string {
	return r.OriginalField().String() + "->" + r.ChangedField().String() + r.Operations.String()
}

func (r *ChangeRecord) String() string {
	return r.Operations.String()
}

// NewChangeRecord creates a change record
func NewChangeRecord(original, changed string, operations ...*Operation) *ChangeRecord {
	return &ChangeRecord{OriginalEntityName: original, ChangedEntityName: changed, Operations: operations}
}
