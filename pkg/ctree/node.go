package ctree

// Node is an element in the abstract control tree.
//
// The tree plays the role the DOM plays for a browser form: it holds
// elements with attributes and children, it can be mutated structurally
// at runtime, it dispatches bubbling events, and it reports structural
// changes to observers. Control state (current value, checked flag,
// attached files) lives directly on the node.
type Node struct {
	Tag      string
	Attrs    map[string]string
	Children []*Node

	// Control state. Value is the live text value for text-like inputs
	// and the submit value for checkboxes/radios. Checked applies to
	// checkbox and radio inputs. Files applies to file inputs.
	Value   string
	Checked bool
	Files   []File

	parent *Node

	listeners      map[EventType][]*listener
	nextListenerID uint64
	observers      []*Observer
}

// File describes an attached file on a file input.
type File struct {
	Name        string
	Size        int64
	ContentType string
}

// New creates a node with the given tag, attributes and children.
// Children are adopted without generating mutation records; observers
// only see changes made through AppendChild/InsertBefore/RemoveChild.
func New(tag string, attrs map[string]string, children ...*Node) *Node {
	n := &Node{Tag: tag, Attrs: attrs}
	if n.Attrs == nil {
		n.Attrs = map[string]string{}
	}
	for _, c := range children {
		c.parent = n
		n.Children = append(n.Children, c)
	}
	return n
}

// Attr returns the attribute value and whether it is present.
func (n *Node) Attr(key string) (string, bool) {
	v, ok := n.Attrs[key]
	return v, ok
}

// SetAttr sets an attribute. Attribute changes are not observed;
// observation granularity is child-list only.
func (n *Node) SetAttr(key, value string) {
	n.Attrs[key] = value
}

// RemoveAttr removes an attribute.
func (n *Node) RemoveAttr(key string) {
	delete(n.Attrs, key)
}

// Parent returns the parent node, or nil for a detached root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Root returns the topmost ancestor of this node.
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Contains reports whether d is n or a descendant of n.
func (n *Node) Contains(d *Node) bool {
	for cur := d; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

// Walk visits n and every descendant in document (preorder) order.
func (n *Node) Walk(visit func(*Node)) {
	visit(n)
	for _, c := range n.Children {
		c.Walk(visit)
	}
}

// Options returns the option children of a select node, in document
// order. Non-select nodes have no options.
func (n *Node) Options() []*Node {
	var opts []*Node
	n.Walk(func(c *Node) {
		if c.Tag == "option" {
			opts = append(opts, c)
		}
	})
	return opts
}

// Marker and metadata attribute names recognized by the binding engine.
const (
	AttrName   = "name"
	AttrType   = "type"
	AttrIgnore = "data-formic-ignore"
	AttrKeep   = "data-formic-keep"
	AttrIndex  = "data-formic-index"

	// AttrValidationMessage and AttrInvalid are written by error
	// reflection.
	AttrValidationMessage = "data-formic-validation-message"
	AttrInvalid           = "aria-invalid"
)

// Name returns the control's name attribute, if any.
func (n *Node) Name() (string, bool) {
	v, ok := n.Attrs[AttrName]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Ignored reports whether the node opts out of automatic binding.
func (n *Node) Ignored() bool {
	_, ok := n.Attrs[AttrIgnore]
	return ok
}

// KeepOnRemove reports whether the node's value should survive its
// removal from the tree. The marker counts unless explicitly disabled
// with the literal value "false".
func (n *Node) KeepOnRemove() bool {
	v, ok := n.Attrs[AttrKeep]
	return ok && v != "false"
}
