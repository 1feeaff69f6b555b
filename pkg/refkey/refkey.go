// Package refkey implements the reference-key convention that links a
// registry component to a node attribute.
//
// A reference key has the form "__<nodename>__:<attrname>". Components named
// this way belong to the attribute attrname of node nodename, and inline
// definitions promoted out of a node take this name.
package refkey

import (
	"errors"
	"strings"
)

const (
	prefix    = "__"
	separator = "__:"
)

// ErrNotReferenceKey is returned when a name does not follow the
// "__<nodename>__:<attrname>" format.
var ErrNotReferenceKey = errors.New("not a reference key")

// CanonicalName returns the reference key for attribute attr of node.
func CanonicalName(node, attr string) string {
	return prefix + node + separator + attr
}

// Parse splits a reference key into its node and attribute names.
// The last "__:" is the separator, so node names may contain underscores.
func Parse(key string) (node, attr string, err error) {
	if !strings.HasPrefix(key, prefix) {
		return "", "", ErrNotReferenceKey
	}
	idx := strings.LastIndex(key, separator)
	if idx < len(prefix) {
		return "", "", ErrNotReferenceKey
	}

	node = key[len(prefix):idx]
	attr = key[idx+len(separator):]
	if node == "" || attr == "" {
		return "", "", ErrNotReferenceKey
	}
	return node, attr, nil
}

// IsReferenceKey reports whether key parses as a reference key.
func IsReferenceKey(key string) bool {
	_, _, err := Parse(key)
	return err == nil
}

// RoundTrips reports whether Parse(CanonicalName(node, attr)) gives back
// node and attr. It fails when attr contains the separator.
func RoundTrips(node, attr string) bool {
	n, a, err := Parse(CanonicalName(node, attr))
	return err == nil && n == node && a == attr
}
