package linage

import "strings"

// StepField is a unique reference to a field flowing from/into a step
type StepField struct {
	StepName  string `yaml:"stepName,omitempty"` // Step name
	FieldName string `yaml:"fieldName"`          // Field name
}

// String returns step:field reference
func (f StepField) String() string {
	return f.StepName + ":" + f.FieldName
}

// NewStepField creates a step field
func NewStepField(stepName, fieldName string) StepField {
	return StepField{StepName: stepName, FieldName: fieldName}
}

// ParseStepField parses step:field reference, a reference without separator is treated as a field name
func ParseStepField(ref string) StepField {
	index := strings.LastIndex(ref, ":")
	if index == -1 {
		return StepField{FieldName: ref}
	}
	return StepField{StepName: ref[:index], FieldName: ref[index+1:]}
}
