package analyzer

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/steplinage/analyzer/linage"
	"github.com/viant/steplinage/graph"
	"github.com/viant/steplinage/pipeline"
	"gopkg.in/yaml.v3"
	"testing"
)

func decodePipeline(t *testing.T, text string) *pipeline.Pipeline {
	p := &pipeline.Pipeline{}
	require.NoError(t, yaml.Unmarshal([]byte(text), p))
	require.NoError(t, p.Init())
	return p
}

func analyzeStep(t *testing.T, stepAnalyzer StepAnalyzer, p *pipeline.Pipeline, stepName string) (*Analysis, *graph.MemoryStore) {
	store := graph.NewMemoryStore()
	meta, err := stepAnalyzer.NewMeta(p.Step(stepName))
	require.NoError(t, err)
	analysis, err := New(WithStore(store)).Analyze(context.Background(), stepAnalyzer, nil, meta)
	require.NoError(t, err)
	return analysis, store
}

const selectValuesYAML = `name: select
steps:
  - name: Read
    type: TableInput
    fields:
      - name: id
        type: Integer
      - name: amt
        type: Number
      - name: note
        type: String
  - name: Select
    type: SelectValues
    fields:
      - name: id
        type: Integer
      - name: amount
        type: Number
      - name: note
        type: Text
    config:
      fields:
        - name: id
        - name: amt
          rename: amount
          length: 10
          precision: 2
      meta:
        - name: note
          type: Text
  - name: Write
    type: TableOutput
hops:
  - from: Read
    to: Select
  - from: Select
    to: Write
`

func TestSelectValuesAnalyzer(t *testing.T) {
	p := decodePipeline(t, selectValuesYAML)
	stepAnalyzer := NewSelectValuesAnalyzer(NewConnectionAnalyzer())
	analysis, store := analyzeStep(t, stepAnalyzer, p, "Select")

	meta, ok := analysis.Meta.(*SelectValuesMeta)
	require.True(t, ok)
	require.Len(t, meta.Fields, 2)
	assert.Equal(t, 10, meta.Fields[1].Length)
	assert.Same(t, p.Step("Select"), meta.ParentStep())

	records, err := stepAnalyzer.ChangeRecords(analysis)
	require.NoError(t, err)
	var actual []string
	for _, record := range records {
		actual = append(actual, record.Key())
	}
	assert.Equal(t, []string{
		":amt->:amount[modifyName: amt -> amount, modifyLength: 10, modifyPrecision: 2]",
		":note->:note[modifyType: String -> Text]",
	}, actual)

	assert.Len(t, store.Links(analysis.Root, graph.Out, graph.LinkUses), 3)
	assert.Len(t, linksWithLabel(store, graph.LinkDerives), 4)
	assert.Equal(t, "[modifyName: amt -> amount, modifyLength: 10, modifyPrecision: 2]",
		analysis.Outputs.FindNode(linage.NewStepField("Write", "amount")).Property(graph.PropertyOperations))
	assert.Equal(t, "[modifyType: String -> Text]",
		analysis.Outputs.FindNode(linage.NewStepField("Write", "note")).Property(graph.PropertyOperations))
	assert.Nil(t, analysis.Outputs.FindNode(linage.NewStepField("Write", "id")).Property(graph.PropertyOperations))
	assert.Empty(t, analysis.TransientNodes())
	assert.Equal(t, SelectValuesAnalyzerName, analysis.Root.Property(graph.PropertyAnalyzer))
}

const calculatorYAML = `name: calc
steps:
  - name: Read
    type: TableInput
    fields:
      - name: a
        type: Integer
      - name: b
        type: Integer
  - name: Calc
    type: Calculator
    addFields:
      - name: total
        type: Integer
    config:
      calculations:
        - fieldName: tmp
          type: ADD
          fieldA: a
          fieldB: b
          remove: true
        - fieldName: total
          type: MULTIPLY
          fieldA: tmp
          fieldB: b
        - fieldName: rate
          type: CONSTANT
          remove: true
  - name: Write
    type: TableOutput
hops:
  - from: Read
    to: Calc
  - from: Calc
    to: Write
`

func TestCalculatorAnalyzer(t *testing.T) {
	p := decodePipeline(t, calculatorYAML)
	analysis, store := analyzeStep(t, NewCalculatorAnalyzer(nil), p, "Calc")

	transients := analysis.TransientNodes()
	require.Len(t, transients, 2)
	assert.NotNil(t, transients["tmp"])
	assert.NotNil(t, transients["rate"])
	assert.Len(t, store.Links(analysis.Root, graph.Out, graph.LinkTransient), 2)

	var usesInputs int
	for _, link := range store.Links(analysis.Root, graph.Out, graph.LinkUses) {
		if !link.To.IsVirtual() {
			usesInputs++
		}
	}
	assert.Equal(t, 3, usesInputs)

	derives := linksWithLabel(store, graph.LinkDerives)
	assert.Len(t, derives, 7)
	assert.Len(t, store.Links(transients["tmp"], graph.In, graph.LinkDerives), 2)
	assert.Len(t, store.Links(transients["tmp"], graph.Out, graph.LinkDerives), 1)
	rate := store.Links(transients["rate"], graph.Out, graph.LinkDerives)
	require.Len(t, rate, 1)
	assert.Same(t, transients["rate"], rate[0].To)

	total := analysis.Outputs.FindNode(linage.NewStepField("Write", "total"))
	assert.Equal(t, "[calculation: MULTIPLY(tmp, b)]", total.Property(graph.PropertyOperations))
}

func TestCalculatorAnalyzer_RemovedFields(t *testing.T) {
	p := decodePipeline(t, `name: calc
steps:
  - name: Read
    type: TableInput
    fields:
      - name: a
        type: Integer
  - name: Calc
    type: Calculator
    addFields:
      - name: tmp
        type: Integer
      - name: total
        type: Integer
    config:
      calculations:
        - fieldName: tmp
          type: ADD
          fieldA: Read:a
          remove: true
        - fieldName: total
          type: MULTIPLY
          fieldA: tmp
          fieldB: a
  - name: Write
    type: TableOutput
hops:
  - from: Read
    to: Calc
  - from: Calc
    to: Write
`)
	stepAnalyzer := NewCalculatorAnalyzer(nil)
	analysis, store := analyzeStep(t, stepAnalyzer, p, "Calc")
	assert.Equal(t, []string{"tmp"}, stepAnalyzer.RemovedFields(analysis))

	assert.Nil(t, analysis.Outputs.FindNode(linage.NewStepField("Write", "tmp")))
	assert.NotNil(t, analysis.Outputs.FindNode(linage.NewStepField("Write", "total")))
	assert.Equal(t, 2, analysis.Outputs.Len())

	tmp := analysis.TransientNodes()["tmp"]
	require.NotNil(t, tmp)
	assert.True(t, tmp.IsVirtual())
	assert.Equal(t, "[calculation: ADD(Read:a)]", tmp.Property(graph.PropertyOperations))

	input := analysis.Inputs.FindNode(linage.NewStepField("Read", "a"))
	require.NotNil(t, input)
	derived := store.Links(tmp, graph.In, graph.LinkDerives)
	require.Len(t, derived, 1)
	assert.Same(t, input, derived[0].From)
	assert.Len(t, store.Links(tmp, graph.Out, graph.LinkDerives), 1)
}

func TestCalculatorAnalyzer_StepFieldArguments(t *testing.T) {
	p := decodePipeline(t, `name: calc
steps:
  - name: Left
    type: TableInput
    fields:
      - name: a
  - name: Right
    type: TableInput
    fields:
      - name: a
  - name: Calc
    type: Calculator
    addFields:
      - name: total
    config:
      calculations:
        - fieldName: total
          type: COPY
          fieldA: Right:a
hops:
  - from: Left
    to: Calc
  - from: Right
    to: Calc
`)
	stepAnalyzer := NewCalculatorAnalyzer(nil)
	analysis, store := analyzeStep(t, stepAnalyzer, p, "Calc")
	assert.Equal(t, []linage.StepField{linage.NewStepField("Right", "a")}, stepAnalyzer.UsedFields(analysis))

	records, err := stepAnalyzer.ChangeRecords(analysis)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Right", records[0].OriginalStepName)
	assert.Equal(t, "a", records[0].OriginalEntityName)

	right := analysis.Inputs.FindNode(linage.NewStepField("Right", "a"))
	total := analysis.Outputs.FindNode(linage.NewStepField(NoneStep, "total"))
	require.NotNil(t, total)
	derived := store.Links(total, graph.In, graph.LinkDerives)
	require.Len(t, derived, 1)
	assert.Same(t, right, derived[0].From)
}

func TestCalculatorAnalyzer_InvalidCalculation(t *testing.T) {
	p := decodePipeline(t, `name: calc
steps:
  - name: Read
    type: TableInput
    fields:
      - name: a
  - name: Calc
    type: Calculator
    config:
      calculations:
        - type: ADD
          fieldA: a
hops:
  - from: Read
    to: Calc
`)
	stepAnalyzer := NewCalculatorAnalyzer(nil)
	analysis, store := analyzeStep(t, stepAnalyzer, p, "Calc")
	_, err := stepAnalyzer.ChangeRecords(analysis)
	assert.Error(t, err)
	require.Len(t, analysis.Changes, 1)
	assert.Equal(t, "Read:a->:a[]", analysis.Changes[0].Key())
	assert.Len(t, linksWithLabel(store, graph.LinkDerives), 1)
}

func TestGenericAnalyzer_Connection(t *testing.T) {
	testCases := []struct {
		description      string
		config           string
		expectConnection bool
	}{
		{
			description: "no connection",
		},
		{
			description:      "step with connection",
			config:           "connection: ordersDb",
			expectConnection: true,
		},
	}
	for _, testCase := range testCases {
		step := &pipeline.Step{Name: "Read", Type: "TableInput", Fields: pipeline.RowMeta{field("id", "Integer")}}
		if testCase.config != "" {
			require.NoError(t, yaml.Unmarshal([]byte(testCase.config), &step.Config), testCase.description)
		}
		p := newPipeline(t, []*pipeline.Step{step})
		analysis, store := analyzeStep(t, NewGenericAnalyzer(NewConnectionAnalyzer()), p, "Read")
		connections := store.FindNodes(map[string]interface{}{graph.PropertyType: graph.NodeTypeConnection})
		if !testCase.expectConnection {
			assert.Empty(t, connections, testCase.description)
			continue
		}
		require.Len(t, connections, 1, testCase.description)
		assert.Equal(t, "ordersDb", connections[0].Name(), testCase.description)
		links := store.Links(analysis.Root, graph.In, graph.LinkDependencyOf)
		require.Len(t, links, 1, testCase.description)
		assert.Same(t, connections[0], links[0].From, testCase.description)
	}
}

func TestProvider_Analyzer(t *testing.T) {
	connections := NewConnectionAnalyzer()
	provider := DefaultProvider(connections)
	testCases := []struct {
		description string
		typeID      string
		expectName  string
	}{
		{description: "select values", typeID: SelectValuesType, expectName: SelectValuesAnalyzerName},
		{description: "calculator", typeID: CalculatorType, expectName: CalculatorAnalyzerName},
		{description: "generic fallback", typeID: "TableInput", expectName: GenericAnalyzerName},
	}
	for _, testCase := range testCases {
		stepAnalyzer := provider.Analyzer(testCase.typeID)
		assert.Equal(t, testCase.expectName, stepAnalyzer.Name(), testCase.description)
		shared, ok := stepAnalyzer.(interface{ ConnectionAnalyzer() ConnectionAnalyzer })
		require.True(t, ok, testCase.description)
		assert.Same(t, connections, shared.ConnectionAnalyzer(), testCase.description)
	}
	assert.NotSame(t, provider.Analyzer(SelectValuesType), provider.Analyzer(SelectValuesType))
	assert.Same(t, provider.Analyzer("Dummy"), provider.Analyzer("Other"))
}

func TestStepAnalyzer_CloneIsolation(t *testing.T) {
	p := decodePipeline(t, selectValuesYAML)
	connections := NewConnectionAnalyzer()
	prototype := NewSelectValuesAnalyzer(connections)
	clone := prototype.Clone()
	assert.NotSame(t, prototype, clone)
	assert.Same(t, connections, clone.(*SelectValuesAnalyzer).ConnectionAnalyzer())

	original, _ := analyzeStep(t, prototype, p, "Select")
	cloned, _ := analyzeStep(t, clone, p, "Select")
	assert.NotSame(t, original.Root, cloned.Root)
	assert.NotSame(t, original.Inputs, cloned.Inputs)
	assert.NotSame(t, original.Outputs, cloned.Outputs)
	assert.Equal(t, original.Root.LogicalID(), cloned.Root.LogicalID())
	assert.Equal(t, original.Outputs.Len(), cloned.Outputs.Len())
}
