package network

import (
	"github.com/dd0wney/cluso-waternet/pkg/logging"
	"github.com/dd0wney/cluso-waternet/pkg/model"
	"github.com/dd0wney/cluso-waternet/pkg/refkey"
)

// referenceTarget is the node attribute a reference-key component name points at
type referenceTarget struct {
	Key  string
	Node string
	Attr string
}

// referenceTable parses component names into their node attribute targets.
// Names that are not reference keys are returned separately.
func referenceTable(names []string) (targets []referenceTarget, malformed []string) {
	for _, key := range names {
		node, attr, err := refkey.Parse(key)
		if err != nil {
			malformed = append(malformed, key)
			continue
		}
		targets = append(targets, referenceTarget{Key: key, Node: node, Attr: attr})
	}
	return targets, malformed
}

// AddParameterReferences links "__node__:attr" parameter names back onto the
// node attributes they name. An attribute is only created when the node
// exists and does not define it yet. Returns the number of attributes added.
func (n *Network) AddParameterReferences() int {
	added := n.addComponentReferences(KindParameter, n.parameters.Names())
	if n.metrics != nil {
		n.metrics.RecordReferencesAdded(KindParameter, added)
	}
	return added
}

// AddRecorderReferences is AddParameterReferences for the recorder registry
func (n *Network) AddRecorderReferences() int {
	added := n.addComponentReferences(KindRecorder, n.recorders.Names())
	if n.metrics != nil {
		n.metrics.RecordReferencesAdded(KindRecorder, added)
	}
	return added
}

func (n *Network) addComponentReferences(kind string, names []string) int {
	targets, malformed := referenceTable(names)
	for _, key := range malformed {
		n.logger.Debug("component name is not a reference key", logging.Kind(kind), logging.Component(key))
	}

	added := 0
	for _, t := range targets {
		node, ok := n.nodes.Get(t.Node)
		if !ok {
			n.logger.Debug("reference names unknown node",
				logging.Kind(kind), logging.Component(t.Key), logging.Node(t.Node))
			continue
		}
		if model.IsReservedAttr(t.Attr) || node.HasAttr(t.Attr) {
			n.logger.Debug("node attribute already set",
				logging.Kind(kind), logging.Component(t.Key), logging.Node(t.Node), logging.Attr(t.Attr))
			continue
		}
		if err := node.SetAttr(t.Attr, model.Reference(t.Key)); err != nil {
			continue
		}
		added++
	}
	return added
}
