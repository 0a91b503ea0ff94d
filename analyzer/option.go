package analyzer

import (
	"github.com/go-logr/logr"
	"github.com/viant/steplinage/graph"
	"github.com/viant/steplinage/pipeline"
)

type Option func(*Builder)

// WithStore sets graph store receiving nodes and links
func WithStore(store graph.Store) Option {
	return func(b *Builder) {
		b.store = store
	}
}

// WithFactory sets node factory
func WithFactory(factory graph.Factory) Option {
	return func(b *Builder) {
		b.factory = factory
	}
}

// WithTypeResolver sets step type display name resolver
func WithTypeResolver(resolver pipeline.TypeResolver) Option {
	return func(b *Builder) {
		b.resolver = resolver
	}
}

// WithLogger sets logger, otherwise the logger is taken from the context
func WithLogger(logger logr.Logger) Option {
	return func(b *Builder) {
		b.logger = &logger
	}
}

// WithConfig sets builder config
func WithConfig(config *Config) Option {
	return func(b *Builder) {
		if config == nil {
			return
		}
		config.Init()
		b.config = config
	}
}

// WithGraphExporter registers an Exporter receiving the graph after pipeline analysis.
func WithGraphExporter(exporter graph.Exporter) Option {
	return func(b *Builder) {
		b.exporter = exporter
	}
}
