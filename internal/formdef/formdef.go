// Package formdef loads YAML form definitions and builds control
// trees from them. The CLI uses it to inspect and serve forms that
// exist as files rather than as code.
package formdef

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/formic-dev/formic/pkg/ctree"
)

// Definition is a declarative form: a name plus an ordered list of
// fields and groups.
type Definition struct {
	// Name identifies the form.
	Name string `yaml:"name"`

	// Fields are the top-level controls and groups, in document order.
	Fields []Field `yaml:"fields"`
}

// Field describes one control, one radio/checkbox group, or one nested
// group of fields.
type Field struct {
	// Name is the control's path-shaped name (user.addresses[0].city).
	Name string `yaml:"name,omitempty"`

	// Type selects the control kind: text (default), number, checkbox,
	// radio, file, select, multiselect, textarea.
	Type string `yaml:"type,omitempty"`

	// Value is the control's initial value.
	Value string `yaml:"value,omitempty"`

	// Checked marks checkboxes and radios as initially checked. For
	// radio groups it names the checked option instead.
	Checked string `yaml:"checked,omitempty"`

	// Options are the choices of selects and radio groups.
	Options []string `yaml:"options,omitempty"`

	// Selected pre-selects options of selects and multiselects.
	Selected []string `yaml:"selected,omitempty"`

	// Ignore excludes the control from binding.
	Ignore bool `yaml:"ignore,omitempty"`

	// Keep preserves the control's values when its subtree is removed.
	Keep bool `yaml:"keep,omitempty"`

	// Index pins the control's sequence index explicitly.
	Index *int `yaml:"index,omitempty"`

	// Group nests fields under a fieldset. Mutually exclusive with
	// Name.
	Group string `yaml:"group,omitempty"`

	// Fields are the members of a group.
	Fields []Field `yaml:"fields,omitempty"`
}

// Load reads and parses a definition file.
func Load(file string) (*Definition, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("formdef: read %s: %w", file, err)
	}
	return Parse(data)
}

// Parse parses a YAML definition.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("formdef: parse: %w", err)
	}
	if err := def.validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

func (d *Definition) validate() error {
	return validateFields(d.Fields)
}

func validateFields(fields []Field) error {
	for i, f := range fields {
		if f.Group != "" {
			if f.Name != "" {
				return fmt.Errorf("formdef: field %d: group and name are mutually exclusive", i)
			}
			if err := validateFields(f.Fields); err != nil {
				return err
			}
			continue
		}
		if f.Name == "" {
			return fmt.Errorf("formdef: field %d: missing name", i)
		}
		switch f.Type {
		case "", "text", "number", "checkbox", "radio", "file", "select", "multiselect", "textarea":
		default:
			return fmt.Errorf("formdef: field %q: unknown type %q", f.Name, f.Type)
		}
		if (f.Type == "select" || f.Type == "multiselect" || f.Type == "radio") && len(f.Options) == 0 {
			return fmt.Errorf("formdef: field %q: %s needs options", f.Name, f.Type)
		}
	}
	return nil
}

// Build constructs the form's control tree.
func (d *Definition) Build() *ctree.Node {
	root := ctree.Form()
	if d.Name != "" {
		root.SetAttr("id", d.Name)
	}
	for _, f := range d.Fields {
		for _, n := range buildField(f) {
			root.AppendChild(n)
		}
	}
	return root
}

// buildField returns the nodes for one field. Radio groups expand to
// one control per option.
func buildField(f Field) []*ctree.Node {
	if f.Group != "" {
		fs := ctree.Fieldset()
		fs.SetAttr("id", f.Group)
		for _, child := range f.Fields {
			for _, n := range buildField(child) {
				fs.AppendChild(n)
			}
		}
		return []*ctree.Node{fs}
	}

	var nodes []*ctree.Node
	switch f.Type {
	case "number":
		n := ctree.Number(f.Name)
		if f.Value != "" {
			n.WithValue(f.Value)
		}
		nodes = []*ctree.Node{n}
	case "checkbox":
		n := ctree.Checkbox(f.Name, f.Value)
		if f.Checked != "" {
			n.WithChecked(true)
		}
		nodes = []*ctree.Node{n}
	case "radio":
		for _, opt := range f.Options {
			n := ctree.Radio(f.Name, opt)
			if opt == f.Checked {
				n.WithChecked(true)
			}
			nodes = append(nodes, n)
		}
	case "file":
		nodes = []*ctree.Node{ctree.FileInput(f.Name)}
	case "select":
		nodes = []*ctree.Node{buildSelect(ctree.Select(f.Name), f)}
	case "multiselect":
		nodes = []*ctree.Node{buildSelect(ctree.MultiSelect(f.Name), f)}
	case "textarea":
		n := ctree.TextArea(f.Name)
		if f.Value != "" {
			n.WithValue(f.Value)
		}
		nodes = []*ctree.Node{n}
	default:
		n := ctree.Text(f.Name)
		if f.Value != "" {
			n.WithValue(f.Value)
		}
		nodes = []*ctree.Node{n}
	}

	for _, n := range nodes {
		if f.Ignore {
			n.SetAttr(ctree.AttrIgnore, "")
		}
		if f.Keep {
			n.SetAttr(ctree.AttrKeep, "")
		}
		if f.Index != nil {
			n.SetAttr(ctree.AttrIndex, fmt.Sprintf("%d", *f.Index))
		}
	}
	return nodes
}

func buildSelect(sel *ctree.Node, f Field) *ctree.Node {
	for _, opt := range f.Options {
		o := ctree.Option(opt)
		for _, s := range f.Selected {
			if s == opt {
				o.WithSelected()
			}
		}
		sel.AppendChild(o)
	}
	return sel
}
