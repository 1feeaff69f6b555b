package network

import (
	"strings"

	"github.com/dd0wney/cluso-waternet/pkg/logging"
	"github.com/dd0wney/cluso-waternet/pkg/model"
	"github.com/dd0wney/cluso-waternet/pkg/refkey"
)

// Resolver operation names, used as the metrics operation label
const (
	opAttachParameters = "attach_parameters"
	opAttachRecorders  = "attach_recorders"
	opDetachParameters = "detach_parameters"
	opDetachRecorders  = "detach_recorders"
)

// AttachParameters moves parameters onto the node attributes that use them.
//
// Nodes are visited in document order and attributes in name order. An
// attribute naming a global parameter is replaced by that parameter, which
// leaves the registry. An inline definition whose type does not mention
// "recorder" becomes a parameter named by refkey.CanonicalName; if that name
// is already registered the call fails with ErrDuplicateComponent.
func (n *Network) AttachParameters() error {
	moved := 0
	err := n.eachAttr(func(node *model.Node, attr string, v model.Value) error {
		switch v.Kind {
		case model.KindReference:
			if dereference(n, node, attr, v, KindParameter, n.parameters, model.AttachedParameter) {
				moved++
			}
		case model.KindInline:
			def, _ := v.AsInline()
			if !isInlineParameter(def) {
				return nil
			}
			name := refkey.CanonicalName(node.Name, attr)
			if !refkey.RoundTrips(node.Name, attr) {
				n.logger.Debug("promoted parameter name is not a parseable reference key",
					logging.Node(node.Name), logging.Attr(attr), logging.Component(name))
			}
			if n.parameters.Has(name) {
				return duplicateError(OpAttach, KindParameter, name, node.Name, attr)
			}
			node.Attrs[attr] = model.AttachedParameter(model.NewParameter(name, def))
			moved++
			n.logger.Debug("promoted inline parameter",
				logging.Node(node.Name), logging.Attr(attr), logging.Component(name))
		case model.KindLiteral, model.KindParameter, model.KindRecorder:
		}
		return nil
	})
	n.recordResolver(opAttachParameters, moved, err)
	return err
}

// AttachRecorders moves global recorders onto the node attributes that name
// them. Inline recorder definitions are left in place.
func (n *Network) AttachRecorders() error {
	moved := 0
	err := n.eachAttr(func(node *model.Node, attr string, v model.Value) error {
		if v.Kind != model.KindReference {
			return nil
		}
		if dereference(n, node, attr, v, KindRecorder, n.recorders, model.AttachedRecorder) {
			moved++
		}
		return nil
	})
	n.recordResolver(opAttachRecorders, moved, err)
	return err
}

// isInlineParameter reports whether an inline definition describes a
// parameter. Definitions without a string type are not promoted.
func isInlineParameter(def map[string]any) bool {
	typ, ok := def[model.AttrType].(string)
	if !ok {
		return false
	}
	return !strings.Contains(strings.ToLower(typ), "recorder")
}

// dereference replaces a reference attribute with the registered component
// it names and removes that component from set. It reports whether the
// attribute was attached.
func dereference[T model.Component](n *Network, node *model.Node, attr string, v model.Value,
	kind string, set *model.ComponentSet[T], attach func(T) model.Value) bool {
	name, _ := v.AsReference()
	c, ok := set.Get(name)
	if !ok {
		return false
	}
	node.Attrs[attr] = attach(c)
	set.Delete(name)
	n.logger.Debug("attached global component",
		logging.Kind(kind), logging.Node(node.Name), logging.Attr(attr), logging.Component(name))
	return true
}

// eachAttr visits every non-reserved node attribute, nodes in document order
// and attributes in name order, stopping at the first error.
func (n *Network) eachAttr(fn func(node *model.Node, attr string, v model.Value) error) error {
	for _, node := range n.nodes.All() {
		for _, attr := range node.AttrNames() {
			if model.IsReservedAttr(attr) {
				continue
			}
			if err := fn(node, attr, node.Attrs[attr]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (n *Network) recordResolver(op string, moved int, err error) {
	if err != nil {
		n.logger.Warn("resolver operation failed", logging.Operation(op), logging.Error(err))
	} else {
		n.logger.Debug("resolver operation finished", logging.Operation(op), logging.Count(moved))
	}
	if n.metrics != nil {
		n.metrics.RecordResolverOperation(op, moved, err)
	}
}
