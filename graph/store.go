package graph

import (
	"sort"
	"sync"
)

// Direction represents link direction relative to a node
type Direction int

const (
	// Out selects links starting at the node
	Out Direction = iota
	// In selects links ending at the node
	In
	// Both selects all links touching the node
	Both
)

// Link represents a directed, labeled edge
type Link struct {
	From  *Node
	Label string
	To    *Node
}

// Store represents an attributed directed multigraph
type Store interface {
	// AddNode inserts or merges the node by logical id and returns the stored node
	AddNode(node *Node) *Node
	// AddLink inserts a link, upserting both endpoints
	AddLink(from *Node, label string, to *Node) *Link
	// FindNodes returns nodes with all matching properties
	FindNodes(properties map[string]interface{}) []*Node
	// Links returns node links for the direction, optionally filtered by labels
	Links(node *Node, direction Direction, labels ...string) []*Link
}

// MemoryStore is an in-memory Store safe for concurrent use
type MemoryStore struct {
	mux   sync.RWMutex
	nodes map[string]*Node
	order []string
	links []*Link
	out   map[string][]*Link
	in    map[string][]*Link
}

// AddNode inserts or merges the node
func (s *MemoryStore) AddNode(node *Node) *Node {
	if node == nil {
		return nil
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.upsert(node)
}

func (s *MemoryStore) upsert(node *Node) *Node {
	id := node.LogicalID()
	existing, ok := s.nodes[id]
	if !ok {
		s.nodes[id] = node
		s.order = append(s.order, id)
		return node
	}
	if existing == node {
		return existing
	}
	properties := node.PropertiesMap()
	switch {
	case node.IsVirtual() && !existing.IsVirtual():
		delete(properties, PropertyVirtual)
		delete(properties, PropertyType)
	case !node.IsVirtual() && existing.IsVirtual():
		existing.RemoveProperty(PropertyVirtual)
	}
	existing.SetProperties(properties)
	return existing
}

// AddLink inserts a link, links are never deduplicated
func (s *MemoryStore) AddLink(from *Node, label string, to *Node) *Link {
	if from == nil || to == nil {
		return nil
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	link := &Link{From: s.upsert(from), Label: label, To: s.upsert(to)}
	s.links = append(s.links, link)
	fromID, toID := link.From.LogicalID(), link.To.LogicalID()
	s.out[fromID] = append(s.out[fromID], link)
	s.in[toID] = append(s.in[toID], link)
	return link
}

// Node returns node by logical id
func (s *MemoryStore) Node(logicalID string) *Node {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.nodes[logicalID]
}

// Nodes returns nodes in insertion order
func (s *MemoryStore) Nodes() []*Node {
	s.mux.RLock()
	defer s.mux.RUnlock()
	result := make([]*Node, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.nodes[id])
	}
	return result
}

// AllLinks returns links in insertion order
func (s *MemoryStore) AllLinks() []*Link {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return append([]*Link{}, s.links...)
}

// FindNodes returns nodes with all matching properties
func (s *MemoryStore) FindNodes(properties map[string]interface{}) []*Node {
	var result []*Node
outer:
	for _, node := range s.Nodes() {
		for k, v := range properties {
			if node.Property(k) != v {
				continue outer
			}
		}
		result = append(result, node)
	}
	return result
}

// Links returns node links
func (s *MemoryStore) Links(node *Node, direction Direction, labels ...string) []*Link {
	if node == nil {
		return nil
	}
	id := node.LogicalID()
	s.mux.RLock()
	var candidates []*Link
	switch direction {
	case Out:
		candidates = append(candidates, s.out[id]...)
	case In:
		candidates = append(candidates, s.in[id]...)
	default:
		candidates = append(candidates, s.out[id]...)
		candidates = append(candidates, s.in[id]...)
	}
	s.mux.RUnlock()
	if len(labels) == 0 {
		return candidates
	}
	var result []*Link
	for _, link := range candidates {
		for _, label := range labels {
			if link.Label == label {
				result = append(result, link)
				break
			}
		}
	}
	return result
}

// Snapshot returns a deterministic intermediate representation of the graph
func (s *MemoryStore) Snapshot() *IRGraph {
	result := &IRGraph{}
	for _, node := range s.Nodes() {
		result.Nodes = append(result.Nodes, newIRNode(node))
	}
	for _, link := range s.AllLinks() {
		result.Edges = append(result.Edges, IREdge{
			Source: link.From.ID(),
			Target: link.To.ID(),
			Type:   link.Label,
		})
	}
	sort.SliceStable(result.Nodes, func(i, j int) bool {
		return result.Nodes[i].LogicalID < result.Nodes[j].LogicalID
	})
	sort.SliceStable(result.Edges, func(i, j int) bool {
		if result.Edges[i].Source != result.Edges[j].Source {
			return result.Edges[i].Source < result.Edges[j].Source
		}
		if result.Edges[i].Type != result.Edges[j].Type {
			return result.Edges[i].Type < result.Edges[j].Type
		}
		return result.Edges[i].Target < result.Edges[j].Target
	})
	return result
}

// NewMemoryStore creates in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes: make(map[string]*Node),
		out:   make(map[string][]*Link),
		in:    make(map[string][]*Link),
	}
}
