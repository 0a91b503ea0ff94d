package graph

import (
	"strconv"
	"strings"
)

// LogicalIDGenerator computes a stable node identity from node properties
type LogicalIDGenerator interface {
	LogicalID(node *Node) string
}

type keyGenerator struct {
	keys []string // sorted property keys
}

// LogicalID returns JSON like rendering of the generator keys, absent keys are skipped
func (g *keyGenerator) LogicalID(node *Node) string {
	builder := &strings.Builder{}
	builder.WriteString("{")
	written := 0
	for _, key := range g.keys {
		value := node.StringProperty(key)
		if value == "" {
			continue
		}
		if written > 0 {
			builder.WriteString(",")
		}
		builder.WriteString(strconv.Quote(key))
		builder.WriteString(":")
		builder.WriteString(strconv.Quote(value))
		written++
	}
	builder.WriteString("}")
	return builder.String()
}

var (
	// DefaultIDGenerator identifies a node by namespace and name
	DefaultIDGenerator LogicalIDGenerator = &keyGenerator{keys: []string{PropertyName, PropertyNamespace}}
	// TargetAwareIDGenerator identifies a node by namespace, name and target step
	TargetAwareIDGenerator LogicalIDGenerator = &keyGenerator{keys: []string{PropertyName, PropertyNamespace, PropertyTargetStep}}
)

// Node represents a graph vertex: pipeline, step, field or placeholder
type Node struct {
	Properties
	idGenerator LogicalIDGenerator
}

// Name returns node name
func (n *Node) Name() string { return n.StringProperty(PropertyName) }

// Type returns node type tag
func (n *Node) Type() string { return n.StringProperty(PropertyType) }

// Namespace returns node namespace
func (n *Node) Namespace() string { return n.StringProperty(PropertyNamespace) }

// TargetStep returns target step name or empty
func (n *Node) TargetStep() string { return n.StringProperty(PropertyTargetStep) }

// IsVirtual returns true for synthesized nodes
func (n *Node) IsVirtual() bool {
	virtual, _ := n.Property(PropertyVirtual).(bool)
	return virtual
}

// SetLogicalIDGenerator sets identity strategy
func (n *Node) SetLogicalIDGenerator(generator LogicalIDGenerator) {
	n.mux.Lock()
	defer n.mux.Unlock()
	n.idGenerator = generator
}

// LogicalID returns stable node identity
func (n *Node) LogicalID() string {
	n.mux.RLock()
	generator := n.idGenerator
	n.mux.RUnlock()
	if generator == nil {
		generator = DefaultIDGenerator
	}
	return generator.LogicalID(n)
}

// ID returns short hashed logical id
func (n *Node) ID() string {
	return HashID(n.LogicalID())
}

func (n *Node) String() string {
	return n.Type() + n.LogicalID()
}

// NewNode creates a clean node
func NewNode(namespace, name, nodeType string) *Node {
	node := &Node{idGenerator: DefaultIDGenerator}
	node.SetProperties(map[string]interface{}{
		PropertyName: name,
		PropertyType: nodeType,
	})
	if namespace != "" {
		node.SetProperty(PropertyNamespace, namespace)
	}
	node.SetDirty(false)
	return node
}

// Factory creates graph nodes
type Factory interface {
	CreateNode(namespace, name, nodeType string) *Node
}

type factory struct{}

// CreateNode creates a node
func (f *factory) CreateNode(namespace, name, nodeType string) *Node {
	return NewNode(namespace, name, nodeType)
}

// NewFactory creates default node factory
func NewFactory() Factory {
	return &factory{}
}
