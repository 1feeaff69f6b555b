package constraints

import (
	"testing"

	"github.com/dd0wney/cluso-waternet/pkg/model"
)

// testNetwork is an in-memory NetworkReader
type testNetwork struct {
	nodes      *model.NodeStore
	edges      []model.Edge
	parameters *model.ComponentSet[*model.Parameter]
	recorders  *model.ComponentSet[*model.Recorder]
}

func (n *testNetwork) Nodes() *model.NodeStore                           { return n.nodes }
func (n *testNetwork) Edges() []model.Edge                               { return n.edges }
func (n *testNetwork) Parameters() *model.ComponentSet[*model.Parameter] { return n.parameters }
func (n *testNetwork) Recorders() *model.ComponentSet[*model.Recorder]   { return n.recorders }

func setupTestNetwork(t *testing.T) *testNetwork {
	t.Helper()
	return &testNetwork{
		nodes:      model.NewNodeStore(),
		parameters: model.NewComponentSet[*model.Parameter](),
		recorders:  model.NewComponentSet[*model.Recorder](),
	}
}

func (n *testNetwork) addNode(t *testing.T, name, nodeType string, attrs map[string]any) {
	t.Helper()
	if err := n.nodes.Add(model.NewNode(name, nodeType, attrs)); err != nil {
		t.Fatalf("addNode(%s): %v", name, err)
	}
}

func (n *testNetwork) connect(from, to string) {
	n.edges = append(n.edges, model.Edge{From: from, To: to})
}

func (n *testNetwork) addParameter(name string, data map[string]any) {
	n.parameters.Set(name, model.NewParameter(name, data))
}

func (n *testNetwork) addRecorder(name string, data map[string]any) {
	n.recorders.Set(name, model.NewRecorder(name, data))
}

func subjects(violations []Violation) []string {
	out := make([]string, 0, len(violations))
	for _, v := range violations {
		out = append(out, v.Subject)
	}
	return out
}

func float(v float64) *float64 {
	return &v
}
