package analyzer

import (
	"context"
	"errors"
	"fmt"
	"github.com/viant/steplinage/graph"
	"github.com/viant/steplinage/pipeline"
	"golang.org/x/sync/errgroup"
	"sync"
)

// PipelineResult represents lineage of all pipeline steps
type PipelineResult struct {
	Root     *graph.Node
	Analyses map[string]*Analysis
}

// PipelineAnalyzer analyzes every step of a pipeline into a shared store
type PipelineAnalyzer struct {
	builder  *Builder
	provider *Provider
}

// Builder returns underlying step builder
func (a *PipelineAnalyzer) Builder() *Builder {
	return a.builder
}

// Analyze creates pipeline node and analyzes steps concurrently; failed steps do not stop the others
func (a *PipelineAnalyzer) Analyze(ctx context.Context, aPipeline *pipeline.Pipeline) (*PipelineResult, error) {
	result, err := a.analyze(ctx, aPipeline)
	if result == nil {
		return nil, err
	}
	return result, errors.Join(err, a.export(ctx))
}

// AnalyzeDir discovers pipeline definitions under root and analyzes all of them into the shared store
func (a *PipelineAnalyzer) AnalyzeDir(ctx context.Context, root string) ([]*PipelineResult, error) {
	pipelines, err := pipeline.Discover(ctx, root)
	if err != nil {
		return nil, err
	}
	var results []*PipelineResult
	var errs []error
	for _, aPipeline := range pipelines {
		result, err := a.analyze(ctx, aPipeline)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to analyze pipeline %v: %w", aPipeline.Name, err))
		}
		if result != nil {
			results = append(results, result)
		}
	}
	errs = append(errs, a.export(ctx))
	return results, errors.Join(errs...)
}

func (a *PipelineAnalyzer) analyze(ctx context.Context, aPipeline *pipeline.Pipeline) (*PipelineResult, error) {
	if aPipeline == nil {
		return nil, ErrMissingPipeline
	}
	if a.builder.store == nil {
		return nil, ErrMissingStore
	}
	log := a.builder.log(ctx).WithValues("pipeline", aPipeline.Name)
	root := a.builder.factory.CreateNode(aPipeline.Namespace, aPipeline.Name, graph.NodeTypePipeline)
	root.SetProperty(graph.PropertyPath, aPipeline.Path)
	root.SetProperty(graph.PropertyDescription, aPipeline.Description)
	root = a.builder.store.AddNode(root)

	result := &PipelineResult{Root: root, Analyses: map[string]*Analysis{}}
	var mux sync.Mutex
	var errs []error
	group := errgroup.Group{}
	group.SetLimit(a.builder.config.Concurrency)
	for _, step := range aPipeline.Steps {
		group.Go(func() error {
			analysis, err := a.analyzeStep(ctx, root, step)
			mux.Lock()
			defer mux.Unlock()
			if err != nil {
				errs = append(errs, err)
			}
			if analysis != nil {
				result.Analyses[step.Name] = analysis
			}
			return nil
		})
	}
	_ = group.Wait()
	log.Info("analyzed pipeline", "steps", len(result.Analyses), "failed", len(errs))
	return result, errors.Join(errs...)
}

// export writes the store snapshot when an exporter is configured and the store supports snapshots
func (a *PipelineAnalyzer) export(ctx context.Context) error {
	if a.builder.exporter == nil {
		return nil
	}
	snapshotter, ok := a.builder.store.(interface{ Snapshot() *graph.IRGraph })
	if !ok {
		return nil
	}
	if err := a.builder.exporter.Export(ctx, snapshotter.Snapshot()); err != nil {
		return fmt.Errorf("failed to export graph: %w", err)
	}
	return nil
}

func (a *PipelineAnalyzer) analyzeStep(ctx context.Context, root *graph.Node, step *pipeline.Step) (*Analysis, error) {
	stepAnalyzer := a.provider.Analyzer(step.Type)
	meta, err := stepAnalyzer.NewMeta(step)
	if err != nil {
		return nil, stepError(step.Name, err)
	}
	descriptor := &Descriptor{Name: step.Name, Type: graph.NodeTypeStep, Namespace: root.LogicalID()}
	analysis, err := a.builder.Analyze(ctx, stepAnalyzer, descriptor, meta)
	if analysis != nil {
		a.builder.store.AddLink(root, graph.LinkContains, analysis.Root)
	}
	return analysis, err
}

// NewPipelineAnalyzer creates pipeline analyzer, nil provider uses DefaultProvider
func NewPipelineAnalyzer(provider *Provider, options ...Option) *PipelineAnalyzer {
	if provider == nil {
		provider = DefaultProvider(nil)
	}
	return &PipelineAnalyzer{builder: New(options...), provider: provider}
}
