package graph

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestNode_LogicalID(t *testing.T) {
	tests := []struct {
		description string
		namespace   string
		name        string
		target      string
		expect      string
	}{
		{
			description: "namespace and name",
			namespace:   "ns",
			name:        "id",
			expect:      `{"name":"id","namespace":"ns"}`,
		},
		{
			description: "target aware",
			namespace:   "ns",
			name:        "id",
			target:      "A",
			expect:      `{"name":"id","namespace":"ns","targetStep":"A"}`,
		},
		{
			description: "no namespace",
			name:        "id",
			expect:      `{"name":"id"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			first := NewNode(tc.namespace, tc.name, NodeTypeField)
			second := NewNode(tc.namespace, tc.name, NodeTypePlaceholder)
			if tc.target != "" {
				for _, node := range []*Node{first, second} {
					node.SetProperty(PropertyTargetStep, tc.target)
					node.SetLogicalIDGenerator(TargetAwareIDGenerator)
				}
			}
			assert.Equal(t, tc.expect, first.LogicalID())
			assert.Equal(t, first.LogicalID(), second.LogicalID())
			assert.Equal(t, first.ID(), second.ID())
		})
	}
}

func TestNode_TargetAwareDistinct(t *testing.T) {
	a := NewNode("ns", "id", NodeTypeField)
	a.SetProperty(PropertyTargetStep, "A")
	a.SetLogicalIDGenerator(TargetAwareIDGenerator)
	b := NewNode("ns", "id", NodeTypeField)
	b.SetProperty(PropertyTargetStep, "B")
	b.SetLogicalIDGenerator(TargetAwareIDGenerator)
	assert.NotEqual(t, a.LogicalID(), b.LogicalID())

	plain := NewNode("ns", "id", NodeTypeField)
	plain.SetProperty(PropertyTargetStep, "A")
	assert.Equal(t, `{"name":"id","namespace":"ns"}`, plain.LogicalID())
}

func TestProperties_Dirty(t *testing.T) {
	node := NewFactory().CreateNode("ns", "id", NodeTypeField)
	assert.False(t, node.IsDirty())
	assert.Equal(t, "id", node.Name())
	assert.Equal(t, NodeTypeField, node.Type())
	assert.Equal(t, "ns", node.Namespace())

	node.SetProperty(PropertyDataType, "Integer")
	assert.True(t, node.IsDirty())
	node.SetDirty(false)

	assert.Nil(t, node.RemoveProperty("missing"))
	assert.False(t, node.IsDirty())
	assert.Equal(t, "Integer", node.RemoveProperty(PropertyDataType))
	assert.True(t, node.IsDirty())

	node.SetProperties(map[string]interface{}{"a": 1, "b": 2})
	assert.True(t, node.ContainsKey("a"))
	assert.Equal(t, []string{"a", "b", PropertyName, PropertyNamespace, PropertyType}, node.PropertyKeys())
	node.RemoveProperties("a", "b")
	assert.False(t, node.ContainsKey("a"))
	node.ClearProperties()
	assert.Empty(t, node.PropertiesMap())
}
