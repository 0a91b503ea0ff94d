package analyzer

import (
	"sync"
)

// Provider returns step analyzers by step type id
type Provider struct {
	mux       sync.RWMutex
	analyzers map[string]StepAnalyzer
	generic   StepAnalyzer
}

// Register registers analyzer prototype for its supported types
func (p *Provider) Register(analyzer StepAnalyzer) {
	p.mux.Lock()
	defer p.mux.Unlock()
	for _, typeID := range analyzer.SupportedTypes() {
		p.analyzers[typeID] = analyzer
	}
}

// Analyzer returns a clone of analyzer registered for the type, or generic analyzer
func (p *Provider) Analyzer(typeID string) StepAnalyzer {
	p.mux.RLock()
	analyzer, ok := p.analyzers[typeID]
	p.mux.RUnlock()
	if !ok {
		return p.generic.Clone()
	}
	return analyzer.Clone()
}

// NewProvider creates provider with generic fallback
func NewProvider(generic StepAnalyzer, analyzers ...StepAnalyzer) *Provider {
	if generic == nil {
		generic = NewGenericAnalyzer(nil)
	}
	ret := &Provider{analyzers: map[string]StepAnalyzer{}, generic: generic}
	for _, analyzer := range analyzers {
		ret.Register(analyzer)
	}
	return ret
}

// DefaultProvider creates provider with all built-in analyzers sharing the connection analyzer
func DefaultProvider(connectionAnalyzer ConnectionAnalyzer) *Provider {
	if connectionAnalyzer == nil {
		connectionAnalyzer = NewConnectionAnalyzer()
	}
	return NewProvider(NewGenericAnalyzer(connectionAnalyzer),
		NewSelectValuesAnalyzer(connectionAnalyzer),
		NewCalculatorAnalyzer(connectionAnalyzer),
	)
}
