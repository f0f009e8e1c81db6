package formdef

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/formic-dev/formic/pkg/ctree"
	"github.com/formic-dev/formic/pkg/form"
	"github.com/formic-dev/formic/pkg/path"
)

const signupYAML = `
name: signup
fields:
  - name: user.name
    type: text
    value: Ada
  - name: user.age
    type: number
  - name: subscribed
    type: checkbox
    value: "yes"
    checked: "yes"
  - name: plan
    type: radio
    options: [free, pro]
    checked: pro
  - name: country
    type: select
    options: [uk, fr]
    selected: [fr]
  - name: tags
    type: multiselect
    options: [go, web]
  - name: bio
    type: textarea
  - name: avatar
    type: file
  - name: internal
    ignore: true
  - group: address
    fields:
      - name: address.city
      - name: address.zip
`

func TestParseAndBuild(t *testing.T) {
	def, err := Parse([]byte(signupYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if def.Name != "signup" {
		t.Errorf("Name = %q, want signup", def.Name)
	}

	root := def.Build()
	if root.Tag != "form" {
		t.Fatalf("root tag = %q, want form", root.Tag)
	}

	// Building the tree is only useful if the engine can bind it; the
	// defaults prove paths, kinds and groups came out right.
	controls := form.Scan(root)
	defaults := form.Defaults(root)

	want := path.Tree{
		"user": path.Tree{
			"name": "Ada",
			"age":  nil,
		},
		"subscribed": true,
		"plan":       "pro",
		"country":    "fr",
		"tags":       []any{},
		"bio":        "",
		"avatar":     []ctree.File{},
		"address": path.Tree{
			"city": "",
			"zip":  "",
		},
	}
	if diff := cmp.Diff(want, defaults); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}

	// Two radios share one path; the ignored control never binds.
	var radios, ignored int
	for _, c := range controls {
		if ctree.KindOf(c) == ctree.KindRadio {
			radios++
		}
		if name, _ := c.Name(); name == "internal" {
			ignored++
		}
	}
	if radios != 2 {
		t.Errorf("radio controls = %d, want 2", radios)
	}
	if ignored != 0 {
		t.Errorf("ignored control was scanned")
	}
}

func TestLoadFromFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "form.yaml")
	if err := os.WriteFile(file, []byte(signupYAML), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	def, err := Load(file)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(def.Fields) != 10 {
		t.Errorf("fields = %d, want 10", len(def.Fields))
	}
}

func TestParseRejectsBadDefinitions(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing name", "fields:\n  - type: text\n"},
		{"unknown type", "fields:\n  - name: a\n    type: slider\n"},
		{"select without options", "fields:\n  - name: a\n    type: select\n"},
		{"group with name", "fields:\n  - name: a\n    group: g\n"},
		{"invalid yaml", "fields: [\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.yaml)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestBuildMarkers(t *testing.T) {
	def, err := Parse([]byte(`
fields:
  - name: draft
    keep: true
  - name: rows.tags
    index: 0
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	root := def.Build()
	controls := form.Scan(root)
	if len(controls) != 2 {
		t.Fatalf("controls = %d, want 2", len(controls))
	}
	if !controls[0].KeepOnRemove() {
		t.Error("keep marker not applied")
	}
	if v := controls[1].Attrs[ctree.AttrIndex]; v != "0" {
		t.Errorf("index attr = %q, want 0", v)
	}
}
