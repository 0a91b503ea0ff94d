package graph

// Node types
const (
	NodeTypePipeline    = "Pipeline"
	NodeTypeStep        = "Step"
	NodeTypeField       = "Field"
	NodeTypePlaceholder = "Placeholder"
	NodeTypeConnection  = "Connection"
)

// Link labels
const (
	LinkContains  = "contains"
	LinkInputs    = "inputs"
	LinkOutputs   = "outputs"
	LinkUses      = "uses"
	LinkDerives   = "derives"
	LinkTransient = "transient"
	// LinkDependencyOf links an external connection to the step using it
	LinkDependencyOf = "dependencyof"
)

// Node property keys
const (
	PropertyName        = "name"
	PropertyType        = "type"
	PropertyNamespace   = "namespace"
	PropertyDataType    = "dataType"
	PropertyAnalyzer    = "analyzer"
	PropertyDescription = "description"
	PropertyTargetStep  = "targetStep"
	PropertyOperations  = "operations"
	PropertyVirtual     = "virtual"
	PropertyCopies      = "copies"
	PropertyStepType    = "stepType"
	PropertyPluginID    = "pluginId"
	PropertyPath        = "path"
)
