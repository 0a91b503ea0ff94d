package graph

import (
	"bytes"
	"context"
	"fmt"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
	"os"
)

// IRNode represents a node in the intermediate representation graph.
type IRNode struct {
	ID         string                 `yaml:"id"`                   // hashed logical id
	LogicalID  string                 `yaml:"logicalId"`            // stable node identity
	Type       string                 `yaml:"type"`                 // node type tag
	Properties map[string]interface{} `yaml:"properties,omitempty"` // node properties (name, namespace, dataType, ...)
}

// IREdge represents an edge in the intermediate representation graph.
type IREdge struct {
	Source string `yaml:"source"` // source node ID
	Target string `yaml:"target"` // target node ID
	Type   string `yaml:"type"`   // link label
}

// IRGraph holds the nodes and edges for the intermediate representation.
type IRGraph struct {
	Nodes []IRNode `yaml:"nodes"`
	Edges []IREdge `yaml:"edges"`
}

func newIRNode(node *Node) IRNode {
	return IRNode{
		ID:         node.ID(),
		LogicalID:  node.LogicalID(),
		Type:       node.Type(),
		Properties: node.PropertiesMap(),
	}
}

// Exporter defines an interface to export an IRGraph to a storage backend.
type Exporter interface {
	Export(ctx context.Context, graph *IRGraph) error
}

// YAMLExporter writes IRGraph as YAML to an afs URL
type YAMLExporter struct {
	URL string
	fs  afs.Service
}

// Export writes the graph
func (e *YAMLExporter) Export(ctx context.Context, graph *IRGraph) error {
	data, err := yaml.Marshal(graph)
	if err != nil {
		return fmt.Errorf("failed to marshal graph: %w", err)
	}
	if err = e.fs.Upload(ctx, e.URL, os.FileMode(0644), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to upload graph to %v: %w", e.URL, err)
	}
	return nil
}

// NewYAMLExporter creates YAML exporter
func NewYAMLExporter(URL string) *YAMLExporter {
	return &YAMLExporter{URL: URL, fs: afs.New()}
}
