// Package rawschema adapts schemas that are already JSON Schema documents:
// plain maps holding Draft-2020-12-ish keywords, typically decoded from JSON
// or YAML. Conversion is a direct read of the document; validation is not
// available because a raw document carries no runtime validator (compile it
// with a JSON Schema implementation for that), so Validate reports an
// explanatory failure instead.
package rawschema

import (
	"fmt"
	"strings"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Document wraps a decoded JSON Schema document and resolves local $ref
// pointers. Nodes resolved through the document are cached, so the same
// pointer always yields the same node value; the transformer's cycle
// detection relies on that identity.
type Document struct {
	root  map[string]any
	nodes map[string]*Node
}

// Node is one schema object within a Document. optional marks property nodes
// whose key is absent from the parent's required list.
type Node struct {
	doc      *Document
	val      map[string]any
	optional bool
}

// NewDocument wraps an already-decoded document.
func NewDocument(root map[string]any) *Document {
	return &Document{root: root, nodes: map[string]*Node{}}
}

// FromJSON decodes a JSON document.
func FromJSON(data []byte) (*Document, error) {
	var root map[string]any
	if err := j.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("rawschema: decode json: %w", err)
	}
	return NewDocument(root), nil
}

// FromYAML decodes a YAML document.
func FromYAML(data []byte) (*Document, error) {
	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("rawschema: decode yaml: %w", err)
	}
	return NewDocument(root), nil
}

// Root returns the document's root node.
func (d *Document) Root() *Node {
	return d.nodeAt("#", d.root)
}

func (d *Document) nodeAt(ptr string, val map[string]any) *Node {
	if n, ok := d.nodes[ptr]; ok {
		return n
	}
	n := &Node{doc: d, val: val}
	d.nodes[ptr] = n
	return n
}

// resolve follows a local reference ("#", "#/$defs/name",
// "#/definitions/name") to its target node. Unresolvable references yield
// nil, which the transformer degrades to a permissive fragment.
func (d *Document) resolve(ref string) *Node {
	if d == nil || !strings.HasPrefix(ref, "#") {
		return nil
	}
	if ref == "#" {
		return d.Root()
	}
	cur := any(d.root)
	for _, tok := range strings.Split(strings.TrimPrefix(ref, "#/"), "/") {
		tok = strings.ReplaceAll(tok, "~1", "/")
		tok = strings.ReplaceAll(tok, "~0", "~")
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[tok]
		if !ok {
			return nil
		}
	}
	m, ok := cur.(map[string]any)
	if !ok {
		return nil
	}
	return d.nodeAt(ref, m)
}

// view projects any matched value onto a *Node. Bare maps get a detached
// node: their keywords still read fine, but $ref resolution needs a Document.
func view(v any) (*Node, bool) {
	switch n := v.(type) {
	case *Document:
		if n == nil {
			return nil, false
		}
		return n.Root(), true
	case *Node:
		if n == nil {
			return nil, false
		}
		return n, true
	case map[string]any:
		return &Node{val: n}, true
	}
	return nil, false
}

// child wraps a keyword value (itself a schema object) as a node of the same
// document.
func (n *Node) child(v any) *Node {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return &Node{doc: n.doc, val: m}
}
