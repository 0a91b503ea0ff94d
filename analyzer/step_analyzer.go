package analyzer

import (
	"fmt"
	"github.com/viant/steplinage/analyzer/linage"
	"github.com/viant/steplinage/graph"
	"github.com/viant/steplinage/pipeline"
)

// StepAnalyzer knows how a specific step type transforms fields
type StepAnalyzer interface {
	// Name returns analyzer name stamped on step nodes
	Name() string
	// SupportedTypes returns step type ids handled by the analyzer
	SupportedTypes() []string
	// NewMeta decodes step type specific settings
	NewMeta(step *pipeline.Step) (pipeline.StepMeta, error)
	// UsedFields returns input fields read by the step logic
	UsedFields(analysis *Analysis) []linage.StepField
	// ChangeRecords returns explicit field derivations
	ChangeRecords(analysis *Analysis) ([]*linage.ChangeRecord, error)
	// CustomAnalyze augments the graph after standard processing
	CustomAnalyze(analysis *Analysis) error
	// Clone returns an analyzer carrying over shared collaborators only
	Clone() StepAnalyzer
}

// FieldRemover is implemented by step analyzers whose settings drop fields from the step output
type FieldRemover interface {
	RemovedFields(analysis *Analysis) []string
}

// ConnectionAnalyzer creates nodes for external connections used by steps
type ConnectionAnalyzer interface {
	Analyze(analysis *Analysis, connection string) (*graph.Node, error)
}

type connectionAnalyzer struct{}

// Analyze adds connection node linked to the step as its dependency
func (c *connectionAnalyzer) Analyze(analysis *Analysis, connection string) (*graph.Node, error) {
	if connection == "" {
		return nil, fmt.Errorf("connection name was empty")
	}
	node := graph.NewNode(analysis.Root.Namespace(), connection, graph.NodeTypeConnection)
	node = analysis.Store.AddNode(node)
	analysis.Store.AddLink(node, graph.LinkDependencyOf, analysis.Root)
	return node, nil
}

// NewConnectionAnalyzer creates default connection analyzer
func NewConnectionAnalyzer() ConnectionAnalyzer {
	return &connectionAnalyzer{}
}

// ConnectionMeta is implemented by step settings referencing an external connection
type ConnectionMeta interface {
	ConnectionName() string
}

// baseAnalyzer holds collaborators shared by all clones
type baseAnalyzer struct {
	connectionAnalyzer ConnectionAnalyzer
}

// ConnectionAnalyzer returns shared connection analyzer
func (b *baseAnalyzer) ConnectionAnalyzer() ConnectionAnalyzer {
	return b.connectionAnalyzer
}

// SetConnectionAnalyzer sets shared connection analyzer
func (b *baseAnalyzer) SetConnectionAnalyzer(connectionAnalyzer ConnectionAnalyzer) {
	b.connectionAnalyzer = connectionAnalyzer
}

// CustomAnalyze links the step connection when the step settings reference one
func (b *baseAnalyzer) CustomAnalyze(analysis *Analysis) error {
	meta, ok := analysis.Meta.(ConnectionMeta)
	if !ok || meta.ConnectionName() == "" || b.connectionAnalyzer == nil {
		return nil
	}
	_, err := b.connectionAnalyzer.Analyze(analysis, meta.ConnectionName())
	return err
}
