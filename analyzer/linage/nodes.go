package linage

import (
	"github.com/viant/steplinage/graph"
)

// StepNodes indexes field nodes by step and field name, preserving insertion order
type StepNodes struct {
	steps map[string]map[string]*graph.Node
	order []StepField
}

// AddNode adds or replaces node for step/field
func (s *StepNodes) AddNode(stepName, fieldName string, node *graph.Node) {
	if s.steps == nil {
		s.steps = make(map[string]map[string]*graph.Node)
	}
	fields, ok := s.steps[stepName]
	if !ok {
		fields = make(map[string]*graph.Node)
		s.steps[stepName] = fields
	}
	if _, exists := fields[fieldName]; !exists {
		s.order = append(s.order, NewStepField(stepName, fieldName))
	}
	fields[fieldName] = node
}

// FindNode returns node for exact step/field or nil
func (s *StepNodes) FindNode(field StepField) *graph.Node {
	if s == nil {
		return nil
	}
	return s.steps[field.StepName][field.FieldName]
}

// FindNodes returns all nodes matching field name across steps
func (s *StepNodes) FindNodes(fieldName string) []*graph.Node {
	if s == nil {
		return nil
	}
	var result []*graph.Node
	for _, field := range s.order {
		if field.FieldName == fieldName {
			result = append(result, s.steps[field.StepName][fieldName])
		}
	}
	return result
}

// FieldNames returns all indexed step fields
func (s *StepNodes) FieldNames() []StepField {
	if s == nil {
		return nil
	}
	return append([]StepField{}, s.order...)
}

// StepNames returns all indexed step names
func (s *StepNodes) StepNames() []string {
	if s == nil {
		return nil
	}
	var result []string
	seen := map[string]bool{}
	for _, field := range s.order {
		if seen[field.StepName] {
			continue
		}
		seen[field.StepName] = true
		result = append(result, field.StepName)
	}
	return result
}

// Len returns number of indexed fields
func (s *StepNodes) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// NewStepNodes creates an empty index
func NewStepNodes() *StepNodes {
	return &StepNodes{steps: make(map[string]map[string]*graph.Node)}
}
