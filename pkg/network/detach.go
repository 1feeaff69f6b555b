package network

import (
	"github.com/dd0wney/cluso-waternet/pkg/logging"
	"github.com/dd0wney/cluso-waternet/pkg/model"
)

// DetachParameters is the inverse of AttachParameters. Every attached
// parameter returns to the registry under its name and the attribute becomes
// a reference to it. Fails with ErrDuplicateComponent when the name is
// already registered.
func (n *Network) DetachParameters() error {
	moved, err := detach(n, KindParameter, n.parameters, model.Value.AsParameter)
	n.recordResolver(opDetachParameters, moved, err)
	return err
}

// DetachRecorders is the inverse of AttachRecorders
func (n *Network) DetachRecorders() error {
	moved, err := detach(n, KindRecorder, n.recorders, model.Value.AsRecorder)
	n.recordResolver(opDetachRecorders, moved, err)
	return err
}

func detach[T model.Component](n *Network, kind string, set *model.ComponentSet[T],
	attached func(model.Value) (T, bool)) (int, error) {
	moved := 0
	err := n.eachAttr(func(node *model.Node, attr string, v model.Value) error {
		c, ok := attached(v)
		if !ok {
			return nil
		}
		name := c.ComponentName()
		if set.Has(name) {
			return duplicateError(OpDetach, kind, name, node.Name, attr)
		}
		set.Set(name, c)
		node.Attrs[attr] = model.Reference(name)
		moved++
		n.logger.Debug("detached component",
			logging.Kind(kind), logging.Node(node.Name), logging.Attr(attr), logging.Component(name))
		return nil
	})
	return moved, err
}
