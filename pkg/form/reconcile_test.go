package form

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/formic-dev/formic/pkg/ctree"
	"github.com/formic-dev/formic/pkg/path"
)

func TestGrowthMergesDefaultsWithoutClobberingLiveState(t *testing.T) {
	name := ctree.Text("name")
	root := ctree.Form(name)

	b := Bind(root)
	defer b.Destroy()

	name.Value = "Ada"
	dispatch(root, ctree.EventInput, name)

	root.AppendChild(ctree.Div(
		ctree.Text("email").WithValue("a@b.c"),
		ctree.Checkbox("subscribe", "yes"),
	))

	want := path.Tree{"name": "Ada", "email": "a@b.c", "subscribe": false}
	if diff := cmp.Diff(want, b.Data.Get()); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}

	wantTouched := path.Tree{"name": false, "email": false, "subscribe": false}
	if diff := cmp.Diff(wantTouched, b.Touched.Get()); diff != "" {
		t.Errorf("touched mismatch (-want +got):\n%s", diff)
	}
}

func TestGrowthPreservesTouchedState(t *testing.T) {
	name := ctree.Text("name")
	root := ctree.Form(name)

	b := Bind(root)
	defer b.Destroy()

	dispatch(root, ctree.EventBlur, name)
	root.AppendChild(ctree.Text("email"))

	if got, _ := path.Get(b.Touched.Get(), path.MustParse("name")); got != true {
		t.Error("re-baseline reset an existing touched flag")
	}
}

func TestRemovalUnsetsAllShadowTrees(t *testing.T) {
	email := ctree.Text("email")
	row := ctree.Div(email)
	root := ctree.Form(ctree.Text("name"), row)

	b := Bind(root)
	defer b.Destroy()

	b.Errors.Set(path.Tree{"email": "bad"})
	b.Warnings.Set(path.Tree{"email": "weak"})

	root.RemoveChild(row)

	if _, ok := b.Data.Get()["email"]; ok {
		t.Error("data retains removed path")
	}
	if _, ok := b.Touched.Get()["email"]; ok {
		t.Error("touched retains removed path")
	}
	if _, ok := b.Errors.Get()["email"]; ok {
		t.Error("errors retains removed path")
	}
	if _, ok := b.Warnings.Get()["email"]; ok {
		t.Error("warnings retains removed path")
	}
	if _, ok := b.Data.Get()["name"]; !ok {
		t.Error("unrelated path was dropped")
	}
}

func TestKeepOnRemoveMarkerPreservesValue(t *testing.T) {
	kept := ctree.Text("draft").WithAttr(ctree.AttrKeep, "").WithValue("hold on to this")
	root := ctree.Form(kept)

	b := Bind(root)
	defer b.Destroy()

	root.RemoveChild(kept)

	if got, _ := path.Get(b.Data.Get(), path.MustParse("draft")); got != "hold on to this" {
		t.Errorf("kept value = %v", got)
	}
}

func TestKeepOnRemoveExplicitlyDisabled(t *testing.T) {
	ctl := ctree.Text("draft").WithAttr(ctree.AttrKeep, "false")
	root := ctree.Form(ctl)

	b := Bind(root)
	defer b.Destroy()

	root.RemoveChild(ctl)

	if _, ok := b.Data.Get()["draft"]; ok {
		t.Error(`keep="false" still preserved the value`)
	}
}

func TestListRowRemovalShiftsIndices(t *testing.T) {
	row0 := ctree.Div(ctree.Text("rows[0].name").WithValue("a"))
	row1 := ctree.Div(ctree.Text("rows[1].name").WithValue("b"))
	row2 := ctree.Div(ctree.Text("rows[2].name").WithValue("c"))
	root := ctree.Form(row0, row1, row2)

	b := Bind(root)
	defer b.Destroy()

	root.RemoveChild(row1)

	want := path.Tree{"rows": []any{
		path.Tree{"name": "a"},
		path.Tree{"name": "c"},
	}}
	if diff := cmp.Diff(want, b.Data.Get()); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestNestedRemovalProcessesControlsInReverseOrder(t *testing.T) {
	// Removing a container holding a list unsets leaf paths innermost
	// first; splice semantics would otherwise shift the later indices
	// out from under their paths.
	block := ctree.Div(
		ctree.Text("items[0]").WithValue("x"),
		ctree.Text("items[1]").WithValue("y"),
	)
	root := ctree.Form(ctree.Text("name"), block)

	b := Bind(root)
	defer b.Destroy()

	root.RemoveChild(block)

	if _, ok := b.Data.Get()["items"]; ok {
		t.Errorf("items not fully unset: %v", b.Data.Get())
	}
}

func TestExtendersRemountOnStructuralChange(t *testing.T) {
	root := ctree.Form(ctree.Text("name"))

	rec := &recordingExtender{}
	b := Bind(root, WithExtenders(rec.factory))
	defer b.Destroy()

	if len(rec.stages) != 1 || rec.stages[0] != StageMount {
		t.Fatalf("stages after bind = %v", rec.stages)
	}

	root.AppendChild(ctree.Text("email"))

	if len(rec.stages) != 2 || rec.stages[1] != StageUpdate {
		t.Fatalf("stages after growth = %v", rec.stages)
	}
	if rec.destroys != 1 {
		t.Errorf("previous instance destroyed %d times, want exactly once", rec.destroys)
	}
}
