package model

import (
	"fmt"
	"slices"
	"strings"
)

// Reserved attribute names. They identify the node and never hold references.
const (
	AttrName = "name"
	AttrType = "type"
)

// IsReservedAttr reports whether attr is a reserved attribute name (case-insensitive)
func IsReservedAttr(attr string) bool {
	return strings.EqualFold(attr, AttrName) || strings.EqualFold(attr, AttrType)
}

// Node is a named vertex of the network with free-form attributes.
// Attrs never contains the name and type keys.
type Node struct {
	Name  string `validate:"required"`
	Type  string `validate:"required"`
	Attrs map[string]Value
}

// NewNode builds a node from decoded document attributes. Keys name and type
// in attrs are ignored.
func NewNode(name, nodeType string, attrs map[string]any) *Node {
	n := &Node{
		Name:  name,
		Type:  nodeType,
		Attrs: make(map[string]Value, len(attrs)),
	}
	for k, v := range attrs {
		if k == AttrName || k == AttrType {
			continue
		}
		n.Attrs[k] = ValueOf(v)
	}
	return n
}

// HasAttr reports whether the node defines attr. Name and type are always defined.
func (n *Node) HasAttr(attr string) bool {
	if attr == AttrName || attr == AttrType {
		return true
	}
	_, ok := n.Attrs[attr]
	return ok
}

// Attr gets an attribute value
func (n *Node) Attr(attr string) (Value, bool) {
	v, ok := n.Attrs[attr]
	return v, ok
}

// SetAttr sets an attribute value. Reserved attributes cannot be set this way.
func (n *Node) SetAttr(attr string, v Value) error {
	if attr == AttrName || attr == AttrType {
		return fmt.Errorf("node %s: attribute %q is reserved", n.Name, attr)
	}
	if n.Attrs == nil {
		n.Attrs = make(map[string]Value)
	}
	n.Attrs[attr] = v
	return nil
}

// AttrNames returns the attribute names in sorted order
func (n *Node) AttrNames() []string {
	names := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// AsDict returns the document form of the node
func (n *Node) AsDict() map[string]any {
	out := make(map[string]any, len(n.Attrs)+2)
	out[AttrName] = n.Name
	out[AttrType] = n.Type
	for k, v := range n.Attrs {
		out[k] = v.Raw()
	}
	return out
}

// NodeStore holds nodes by unique name in insertion order
type NodeStore struct {
	order  []string
	byName map[string]*Node
}

// NewNodeStore creates an empty node store
func NewNodeStore() *NodeStore {
	return &NodeStore{byName: make(map[string]*Node)}
}

// Add appends a node. Fails with ErrDuplicateNode if the name is taken.
func (s *NodeStore) Add(n *Node) error {
	if _, exists := s.byName[n.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, n.Name)
	}
	s.byName[n.Name] = n
	s.order = append(s.order, n.Name)
	return nil
}

func (s *NodeStore) Get(name string) (*Node, bool) {
	n, ok := s.byName[name]
	return n, ok
}

func (s *NodeStore) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

func (s *NodeStore) Len() int {
	return len(s.order)
}

// Names returns node names in insertion order
func (s *NodeStore) Names() []string {
	return slices.Clone(s.order)
}

// All returns nodes in insertion order
func (s *NodeStore) All() []*Node {
	nodes := make([]*Node, 0, len(s.order))
	for _, name := range s.order {
		nodes = append(nodes, s.byName[name])
	}
	return nodes
}
