package analyzer

import (
	"context"
	"fmt"
	"github.com/go-logr/logr"
	"github.com/viant/steplinage/analyzer/linage"
	"github.com/viant/steplinage/graph"
	"github.com/viant/steplinage/pipeline"
)

// Builder builds field lineage graph of a single step. Builder keeps no per step state and can be
// shared by concurrent analyses, each Analyze call works on its own Analysis.
type Builder struct {
	store    graph.Store
	factory  graph.Factory
	resolver pipeline.TypeResolver
	config   *Config
	logger   *logr.Logger
	exporter graph.Exporter
}

// Store returns graph store
func (b *Builder) Store() graph.Store {
	return b.store
}

// Factory returns node factory
func (b *Builder) Factory() graph.Factory {
	return b.factory
}

// Config returns builder config
func (b *Builder) Config() *Config {
	return b.config
}

func (b *Builder) log(ctx context.Context) logr.Logger {
	if b.logger != nil {
		return *b.logger
	}
	return logr.FromContextOrDiscard(ctx)
}

// Analyze builds the step node, its input and output field nodes and all derivation links
func (b *Builder) Analyze(ctx context.Context, stepAnalyzer StepAnalyzer, descriptor *Descriptor, meta pipeline.StepMeta) (*Analysis, error) {
	if stepAnalyzer == nil {
		stepAnalyzer = NewGenericAnalyzer(nil)
	}
	analysis, err := b.validate(descriptor, meta)
	if err != nil {
		return nil, err
	}
	log := b.log(ctx).WithValues("pipeline", analysis.Pipeline.PipelineName(), "step", analysis.StepName())
	log.Info("running analyzer", "analyzer", stepAnalyzer.Name())

	analysis.Root = b.createRootNode(analysis, stepAnalyzer)
	analysis.Inputs = b.processInputs(log, analysis)
	analysis.Outputs = b.processOutputs(log, analysis, stepAnalyzer)
	b.processUsedFields(log, analysis, stepAnalyzer.UsedFields(analysis))

	analysis.Changes = b.changes(log, analysis, stepAnalyzer)
	for _, change := range analysis.Changes {
		b.mapChange(analysis, change)
	}

	if err = stepAnalyzer.CustomAnalyze(analysis); err != nil {
		return analysis, stepError(analysis.StepName(), fmt.Errorf("%v: %w", stepAnalyzer.Name(), err))
	}
	log.V(1).Info("analyzed step", "inputs", analysis.Inputs.Len(), "outputs", analysis.Outputs.Len(), "changes", len(analysis.Changes))
	return analysis, nil
}

func (b *Builder) validate(descriptor *Descriptor, meta pipeline.StepMeta) (*Analysis, error) {
	stepName := ""
	if descriptor != nil {
		stepName = descriptor.Name
	}
	if meta == nil {
		return nil, stepError(stepName, ErrMissingStepMeta)
	}
	step := meta.ParentStep()
	if step == nil {
		return nil, stepError(stepName, ErrMissingParentStep)
	}
	engine := step.Pipeline()
	if engine == nil {
		return nil, stepError(step.Name, ErrMissingPipeline)
	}
	if b.store == nil {
		return nil, stepError(step.Name, ErrMissingStore)
	}
	if b.factory == nil {
		return nil, stepError(step.Name, ErrMissingFactory)
	}
	if descriptor == nil {
		descriptor = &Descriptor{Name: step.Name, Type: graph.NodeTypeStep}
	}
	return &Analysis{
		Descriptor: descriptor,
		Meta:       meta,
		Step:       step,
		Pipeline:   engine,
		Store:      b.store,
		transients: map[string]*graph.Node{},
	}, nil
}

func (b *Builder) createRootNode(analysis *Analysis, stepAnalyzer StepAnalyzer) *graph.Node {
	descriptor := analysis.Descriptor
	step := analysis.Step
	root := b.factory.CreateNode(descriptor.Namespace, descriptor.Name, descriptor.Type)
	root.SetProperty(graph.PropertyPluginID, step.Type)
	root.SetProperty(graph.PropertyStepType, b.stepType(step.Type))
	root.SetProperty(graph.PropertyCopies, step.Copies)
	root.SetProperty(graph.PropertyAnalyzer, stepAnalyzer.Name())
	root.SetProperty(graph.PropertyDescription, step.Description)
	return b.store.AddNode(root)
}

func (b *Builder) stepType(typeID string) string {
	if b.resolver == nil {
		return typeID
	}
	name, err := b.resolver.Resolve(typeID)
	if err != nil || name == "" {
		return typeID
	}
	return name
}

// processInputs links fields reaching the step, fields declared upstream but not visible here get no link
func (b *Builder) processInputs(log logr.Logger, analysis *Analysis) *linage.StepNodes {
	inputs := linage.NewStepNodes()
	engine := analysis.Pipeline
	stepName := analysis.StepName()
	for _, prevStepName := range engine.PrevStepNames(stepName) {
		fields, err := b.prevStepSchema(log, engine, stepName, prevStepName)
		if err != nil {
			log.Error(err, "no input fields found", "prevStep", prevStepName)
			continue
		}
		reachable := fields.Names()
		if visible, err := engine.PrevStepFieldsFrom(stepName, prevStepName); err != nil {
			log.V(1).Info("failed to get fields from previous step", "prevStep", prevStepName, "error", err.Error())
		} else if visible != nil {
			reachable = visible.Names()
		}
		for _, field := range fields {
			if !contains(reachable, field.Name) {
				continue
			}
			node := b.createInputFieldNode(analysis, field, prevStepName)
			link := b.store.AddLink(node, graph.LinkInputs, analysis.Root)
			inputs.AddNode(prevStepName, field.Name, link.From)
		}
	}
	return inputs
}

// prevStepSchema returns the fields declared by the previous step, the merged input schema is used
// only when the previous step schema is unavailable
func (b *Builder) prevStepSchema(log logr.Logger, engine pipeline.Engine, stepName, prevStepName string) (pipeline.RowMeta, error) {
	fields, err := engine.StepFields(prevStepName)
	if err == nil {
		return fields, nil
	}
	log.V(1).Info("failed to get previous step fields", "prevStep", prevStepName, "error", err.Error())
	return engine.PrevStepFields(stepName)
}

// processOutputs creates one field node per output field and next step, fields the step analyzer
// reports as removed are not emitted
func (b *Builder) processOutputs(log logr.Logger, analysis *Analysis, stepAnalyzer StepAnalyzer) *linage.StepNodes {
	outputs := linage.NewStepNodes()
	engine := analysis.Pipeline
	stepName := analysis.StepName()
	fields, err := engine.StepFields(stepName)
	if err != nil {
		log.Error(err, "no output fields found")
		return outputs
	}
	var removed []string
	if remover, ok := stepAnalyzer.(FieldRemover); ok {
		removed = remover.RemovedFields(analysis)
	}
	nextStepNames := engine.NextStepNames(stepName)
	if len(nextStepNames) == 0 {
		nextStepNames = []string{NoneStep}
	}
	for _, nextStepName := range nextStepNames {
		for _, field := range fields {
			if contains(removed, field.Name) {
				continue
			}
			node := b.createOutputFieldNode(analysis, field.Name, field.Type, nextStepName, b.config.OutputNodeType)
			b.store.AddLink(analysis.Root, graph.LinkOutputs, node)
			outputs.AddNode(nextStepName, field.Name, node)
		}
	}
	return outputs
}

func (b *Builder) processUsedFields(log logr.Logger, analysis *Analysis, usedFields []linage.StepField) {
	for _, usedField := range usedFields {
		node := analysis.Inputs.FindNode(usedField)
		if node == nil {
			log.V(1).Info("used field not found in inputs", "field", usedField.String())
			continue
		}
		b.store.AddLink(analysis.Root, graph.LinkUses, node)
	}
}

// changes returns explicit change records and inferred passthrough records, duplicates removed
func (b *Builder) changes(log logr.Logger, analysis *Analysis, stepAnalyzer StepAnalyzer) []*linage.ChangeRecord {
	var result []*linage.ChangeRecord
	seen := map[string]bool{}
	add := func(records []*linage.ChangeRecord) {
		for _, record := range records {
			if record == nil {
				continue
			}
			if record.OriginalEntityName == "" || record.ChangedEntityName == "" {
				log.Error(fmt.Errorf("invalid change record: %v", record.Key()), "skipping change record")
				continue
			}
			key := record.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			result = append(result, record)
		}
	}
	records, err := stepAnalyzer.ChangeRecords(analysis)
	if err != nil {
		log.Error(err, "error getting change records")
	} else {
		add(records)
	}
	add(b.passthroughChanges(analysis))
	return result
}

// passthroughChanges returns a record for every input field whose name exists among outputs
func (b *Builder) passthroughChanges(analysis *Analysis) []*linage.ChangeRecord {
	var result []*linage.ChangeRecord
	for _, field := range analysis.Inputs.FieldNames() {
		if !b.isPassthrough(analysis, field) {
			continue
		}
		change := linage.NewChangeRecord(field.FieldName, field.FieldName)
		change.OriginalStepName = field.StepName
		result = append(result, change)
	}
	return result
}

func (b *Builder) isPassthrough(analysis *Analysis, field linage.StepField) bool {
	return len(analysis.Outputs.FindNodes(field.FieldName)) > 0
}

// mapChange links every resolved input node to every resolved output node
func (b *Builder) mapChange(analysis *Analysis, change *linage.ChangeRecord) {
	if change == nil {
		return
	}
	inputNodes := resolveNodes(analysis.Inputs, change.OriginalField())
	if len(inputNodes) == 0 {
		inputNodes = analysis.Outputs.FindNodes(change.OriginalEntityName)
		if len(inputNodes) == 0 {
			inputNodes = []*graph.Node{b.transientNode(analysis, change.OriginalEntityName)}
		}
	}
	outputNodes := resolveNodes(analysis.Outputs, change.ChangedField())
	if len(outputNodes) == 0 {
		outputNodes = []*graph.Node{b.transientNode(analysis, change.ChangedEntityName)}
	}
	for _, inputNode := range inputNodes {
		for _, outputNode := range outputNodes {
			if len(change.Operations) > 0 {
				outputNode.SetProperty(graph.PropertyOperations, change.Operations.String())
			}
			b.store.AddLink(inputNode, b.config.DerivesLabel, outputNode)
		}
	}
}

// resolveNodes prefers exact step/field match and falls back to field name match across steps
func resolveNodes(nodes *linage.StepNodes, field linage.StepField) []*graph.Node {
	if field.StepName != "" {
		if node := nodes.FindNode(field); node != nil {
			return []*graph.Node{node}
		}
	}
	return nodes.FindNodes(field.FieldName)
}

// transientNode returns the placeholder for a field this step fabricated, one per field name
func (b *Builder) transientNode(analysis *Analysis, fieldName string) *graph.Node {
	if node, ok := analysis.transients[fieldName]; ok {
		return node
	}
	node := b.createOutputFieldNode(analysis, fieldName, "", "", b.config.TransientNodeType)
	node.SetProperty(graph.PropertyVirtual, true)
	node = b.store.AddLink(analysis.Root, graph.LinkTransient, node).To
	b.store.AddLink(analysis.Root, graph.LinkUses, node)
	analysis.transients[fieldName] = node
	return node
}

// createInputFieldNode creates node identified by the origin step and this step as target,
// which is the identity the origin step uses for its output field
func (b *Builder) createInputFieldNode(analysis *Analysis, field *pipeline.Field, prevStepName string) *graph.Node {
	origin := b.factory.CreateNode(analysis.Root.Namespace(), prevStepName, graph.NodeTypeStep)
	node := b.factory.CreateNode(origin.LogicalID(), field.Name, b.config.InputNodeType)
	b.setFieldProperties(node, field.Type, analysis.StepName())
	return node
}

// createOutputFieldNode creates node in the step namespace, nodes with target step are added to the store
func (b *Builder) createOutputFieldNode(analysis *Analysis, fieldName, dataType, targetStepName, nodeType string) *graph.Node {
	node := b.factory.CreateNode(analysis.Root.LogicalID(), fieldName, nodeType)
	b.setFieldProperties(node, dataType, targetStepName)
	if targetStepName != "" {
		node = b.store.AddNode(node)
	}
	return node
}

func (b *Builder) setFieldProperties(node *graph.Node, dataType, targetStepName string) {
	if dataType != "" {
		node.SetProperty(graph.PropertyDataType, dataType)
	}
	if targetStepName != "" {
		node.SetProperty(graph.PropertyTargetStep, targetStepName)
		node.SetLogicalIDGenerator(graph.TargetAwareIDGenerator)
	}
	node.SetDirty(false)
}

func contains(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}

// New creates a lineage builder
func New(options ...Option) *Builder {
	builder := &Builder{
		factory: graph.NewFactory(),
		config:  DefaultConfig(),
	}
	for _, opt := range options {
		opt(builder)
	}
	return builder
}
