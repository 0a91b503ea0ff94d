package pipeline

// Field represents a named, typed value flowing between steps
type Field struct {
	Name   string `yaml:"name"`             // Field name
	Type   string `yaml:"type,omitempty"`   // Data type, e.g. String, Integer
	Origin string `yaml:"origin,omitempty"` // Step that created the field
}

// RowMeta represents an ordered field schema
type RowMeta []*Field

// Names returns field names
func (r RowMeta) Names() []string {
	result := make([]string, 0, len(r))
	for _, field := range r {
		result = append(result, field.Name)
	}
	return result
}

// Find returns field by name or nil
func (r RowMeta) Find(name string) *Field {
	for _, field := range r {
		if field.Name == name {
			return field
		}
	}
	return nil
}

// Contains returns true if schema has the field
func (r RowMeta) Contains(name string) bool {
	return r.Find(name) != nil
}

func (r RowMeta) clone() RowMeta {
	result := make(RowMeta, 0, len(r))
	for _, field := range r {
		clone := *field
		result = append(result, &clone)
	}
	return result
}
