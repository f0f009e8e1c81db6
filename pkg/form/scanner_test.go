package form

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/formic-dev/formic/pkg/ctree"
	"github.com/formic-dev/formic/pkg/path"
)

func TestScanSkipsUnnamedAndIgnoredControls(t *testing.T) {
	root := ctree.Form(
		ctree.Text("a"),
		ctree.Text(""),
		ctree.Text("b").WithAttr(ctree.AttrIgnore, ""),
		ctree.Div(ctree.Text("c")),
	)

	got := Scan(root)
	if len(got) != 2 {
		t.Fatalf("scanned %d controls, want 2", len(got))
	}
	if got[0].Attrs[ctree.AttrName] != "a" || got[1].Attrs[ctree.AttrName] != "c" {
		t.Errorf("unexpected controls: %v, %v", got[0].Attrs, got[1].Attrs)
	}
}

func TestDefaultsScalarKinds(t *testing.T) {
	root := ctree.Form(
		ctree.Text("name").WithValue("Ada"),
		ctree.Number("age").WithValue("36"),
		ctree.Number("height"),
		ctree.TextArea("bio").WithValue("text"),
		ctree.Checkbox("subscribe", "yes"),
		ctree.FileInput("avatar"),
	)

	got := Defaults(root)

	want := path.Tree{
		"name":      "Ada",
		"age":       36.0,
		"height":    nil,
		"bio":       "text",
		"subscribe": false,
		"avatar":    []ctree.File{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultsCheckboxGroupMergeRule(t *testing.T) {
	single := ctree.Form(ctree.Checkbox("accept", "yes").WithChecked(true))
	if got := Defaults(single)["accept"]; got != true {
		t.Errorf("single checkbox bound %v, want boolean true", got)
	}

	group := ctree.Form(
		ctree.Checkbox("tags", "go").WithChecked(true),
		ctree.Checkbox("tags", "rust"),
		ctree.Checkbox("tags", "zig").WithChecked(true),
	)
	want := []any{"go", "zig"}
	if diff := cmp.Diff(want, Defaults(group)["tags"]); diff != "" {
		t.Errorf("checkbox group mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultsRadioGroup(t *testing.T) {
	root := ctree.Form(
		ctree.Radio("color", "red"),
		ctree.Radio("color", "green").WithChecked(true),
		ctree.Radio("color", "blue"),
	)
	if got := Defaults(root)["color"]; got != "green" {
		t.Errorf("radio group bound %v, want green", got)
	}

	unchecked := ctree.Form(ctree.Radio("color", "red"))
	if got := Defaults(unchecked)["color"]; got != "" {
		t.Errorf("unchecked radio group bound %v, want empty string", got)
	}
}

func TestDefaultsSelects(t *testing.T) {
	root := ctree.Form(
		ctree.Select("country",
			ctree.Option("no"),
			ctree.Option("se").WithSelected(),
		),
		ctree.Select("fallback",
			ctree.Option("first"),
			ctree.Option("second"),
		),
		ctree.MultiSelect("langs",
			ctree.Option("go").WithSelected(),
			ctree.Option("c"),
			ctree.Option("rust").WithSelected(),
		),
	)

	got := Defaults(root)

	if got["country"] != "se" {
		t.Errorf("country = %v, want se", got["country"])
	}
	if got["fallback"] != "first" {
		t.Errorf("select with no selection binds first option, got %v", got["fallback"])
	}
	if diff := cmp.Diff([]any{"go", "rust"}, got["langs"]); diff != "" {
		t.Errorf("multi select mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultsNestedNames(t *testing.T) {
	root := ctree.Form(
		ctree.Text("user.email").WithValue("a@b.c"),
		ctree.Text("user.addresses[0].city").WithValue("Oslo"),
	)

	got := Defaults(root)

	want := path.Tree{
		"user": path.Tree{
			"email":     "a@b.c",
			"addresses": []any{path.Tree{"city": "Oslo"}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultsIndexHintGrouping(t *testing.T) {
	// Same name across independent list rows, disambiguated by the
	// explicit index hint: each row binds its own group.
	root := ctree.Form(
		ctree.Checkbox("rows.tags", "a").WithAttr(ctree.AttrIndex, "0").WithChecked(true),
		ctree.Checkbox("rows.tags", "b").WithAttr(ctree.AttrIndex, "0"),
		ctree.Checkbox("rows.tags", "a").WithAttr(ctree.AttrIndex, "1"),
		ctree.Checkbox("rows.tags", "b").WithAttr(ctree.AttrIndex, "1").WithChecked(true),
	)

	got := Defaults(root)

	want := path.Tree{
		"rows": path.Tree{"tags": []any{[]any{"a"}, []any{"b"}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultsAreDeterministic(t *testing.T) {
	build := func() *ctree.Node {
		return ctree.Form(
			ctree.Text("name").WithValue("x"),
			ctree.Checkbox("tags", "a").WithChecked(true),
			ctree.Checkbox("tags", "b"),
			ctree.Select("c", ctree.Option("1"), ctree.Option("2").WithSelected()),
		)
	}
	first := Defaults(build())
	for i := 0; i < 10; i++ {
		if diff := cmp.Diff(first, Defaults(build())); diff != "" {
			t.Fatalf("scan %d diverged (-first +now):\n%s", i, diff)
		}
	}
}
