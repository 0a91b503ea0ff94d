package graph

import (
	"sort"
	"sync"
)

// Properties represents mutable key/value attributes with dirty tracking
type Properties struct {
	values map[string]interface{}
	dirty  bool
	mux    sync.RWMutex
}

// Property returns a property value or nil
func (p *Properties) Property(key string) interface{} {
	p.mux.RLock()
	defer p.mux.RUnlock()
	return p.values[key]
}

// StringProperty returns a property value as string, empty when absent or not a string
func (p *Properties) StringProperty(key string) string {
	value, _ := p.Property(key).(string)
	return value
}

// SetProperty sets a property value
func (p *Properties) SetProperty(key string, value interface{}) {
	p.mux.Lock()
	defer p.mux.Unlock()
	if p.values == nil {
		p.values = make(map[string]interface{})
	}
	p.values[key] = value
	p.dirty = true
}

// RemoveProperty removes and returns a property value
func (p *Properties) RemoveProperty(key string) interface{} {
	p.mux.Lock()
	defer p.mux.Unlock()
	value, ok := p.values[key]
	if !ok {
		return nil
	}
	delete(p.values, key)
	p.dirty = true
	return value
}

// PropertyKeys returns sorted property keys
func (p *Properties) PropertyKeys() []string {
	p.mux.RLock()
	defer p.mux.RUnlock()
	keys := make([]string, 0, len(p.values))
	for k := range p.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PropertiesMap returns a copy of all properties
func (p *Properties) PropertiesMap() map[string]interface{} {
	p.mux.RLock()
	defer p.mux.RUnlock()
	result := make(map[string]interface{}, len(p.values))
	for k, v := range p.values {
		result[k] = v
	}
	return result
}

// SetProperties sets all supplied properties
func (p *Properties) SetProperties(values map[string]interface{}) {
	if len(values) == 0 {
		return
	}
	p.mux.Lock()
	defer p.mux.Unlock()
	if p.values == nil {
		p.values = make(map[string]interface{}, len(values))
	}
	for k, v := range values {
		p.values[k] = v
	}
	p.dirty = true
}

// RemoveProperties removes supplied keys
func (p *Properties) RemoveProperties(keys ...string) {
	p.mux.Lock()
	defer p.mux.Unlock()
	for _, k := range keys {
		if _, ok := p.values[k]; ok {
			delete(p.values, k)
			p.dirty = true
		}
	}
}

// ClearProperties removes all properties
func (p *Properties) ClearProperties() {
	p.mux.Lock()
	defer p.mux.Unlock()
	if len(p.values) > 0 {
		p.dirty = true
	}
	p.values = nil
}

// ContainsKey returns true if property is set
func (p *Properties) ContainsKey(key string) bool {
	p.mux.RLock()
	defer p.mux.RUnlock()
	_, ok := p.values[key]
	return ok
}

// IsDirty returns true if properties changed since the last SetDirty(false)
func (p *Properties) IsDirty() bool {
	p.mux.RLock()
	defer p.mux.RUnlock()
	return p.dirty
}

// SetDirty sets dirty state
func (p *Properties) SetDirty(dirty bool) {
	p.mux.Lock()
	defer p.mux.Unlock()
	p.dirty = dirty
}
