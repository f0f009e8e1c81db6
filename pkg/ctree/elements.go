package ctree

// Element constructors used by tests, the CLI and example code. They
// build detached subtrees; attach them with AppendChild to generate
// mutation records.

// Form creates a form root.
func Form(children ...*Node) *Node { return New("form", nil, children...) }

// Div creates a generic container.
func Div(children ...*Node) *Node { return New("div", nil, children...) }

// Fieldset creates a fieldset container.
func Fieldset(children ...*Node) *Node { return New("fieldset", nil, children...) }

// Input creates an input of the given type.
func Input(typ, name string) *Node {
	return New("input", map[string]string{AttrType: typ, AttrName: name})
}

// Text creates a text input.
func Text(name string) *Node { return Input("text", name) }

// Number creates a number input.
func Number(name string) *Node { return Input("number", name) }

// Checkbox creates a checkbox input with the given submit value.
func Checkbox(name, value string) *Node {
	n := Input("checkbox", name)
	n.Value = value
	return n
}

// Radio creates a radio input with the given submit value.
func Radio(name, value string) *Node {
	n := Input("radio", name)
	n.Value = value
	return n
}

// FileInput creates a file input.
func FileInput(name string) *Node { return Input("file", name) }

// TextArea creates a textarea.
func TextArea(name string) *Node {
	return New("textarea", map[string]string{AttrName: name})
}

// Select creates a single select with the given options.
func Select(name string, options ...*Node) *Node {
	return New("select", map[string]string{AttrName: name}, options...)
}

// MultiSelect creates a multiple select with the given options.
func MultiSelect(name string, options ...*Node) *Node {
	return New("select", map[string]string{AttrName: name, "multiple": ""}, options...)
}

// Option creates a select option.
func Option(value string) *Node {
	n := New("option", map[string]string{"value": value})
	n.Value = value
	return n
}

// WithAttr sets an attribute and returns the node for chaining.
func (n *Node) WithAttr(key, value string) *Node {
	n.SetAttr(key, value)
	return n
}

// WithValue sets the live value and returns the node for chaining.
func (n *Node) WithValue(v string) *Node {
	n.Value = v
	return n
}

// WithChecked sets the checked flag and returns the node for chaining.
func (n *Node) WithChecked(checked bool) *Node {
	n.Checked = checked
	return n
}

// WithSelected marks an option as selected and returns it for chaining.
func (n *Node) WithSelected() *Node {
	n.SetAttr("selected", "")
	return n
}

// SelectedOptions returns the values of the selected options under a
// select node, in document order.
func (n *Node) SelectedOptions() []string {
	var vals []string
	for _, o := range n.Options() {
		if _, ok := o.Attrs["selected"]; ok {
			vals = append(vals, o.Attrs["value"])
		}
	}
	return vals
}
