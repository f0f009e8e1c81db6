package path

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSetAutoVivifies(t *testing.T) {
	root := Set(nil, MustParse("user.addresses[1].city"), "Oslo")

	want := Tree{
		"user": Tree{
			"addresses": []any{nil, Tree{"city": "Oslo"}},
		},
	}
	if diff := cmp.Diff(want, root); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestGet(t *testing.T) {
	root := Set(nil, MustParse("a.b[0]"), 7)

	if v, ok := Get(root, MustParse("a.b[0]")); !ok || v != 7 {
		t.Errorf("Get = (%v, %v), want (7, true)", v, ok)
	}
	if _, ok := Get(root, MustParse("a.b[1]")); ok {
		t.Error("out-of-range index resolved")
	}
	if _, ok := Get(root, MustParse("a.c")); ok {
		t.Error("missing key resolved")
	}
}

func TestUnsetSplicesSequencesAndPrunes(t *testing.T) {
	root := Tree{}
	Set(root, MustParse("rows[0].name"), "a")
	Set(root, MustParse("rows[1].name"), "b")
	Set(root, MustParse("rows[2].name"), "c")

	Unset(root, MustParse("rows[1]"))

	want := Tree{"rows": []any{Tree{"name": "a"}, Tree{"name": "c"}}}
	if diff := cmp.Diff(want, root); diff != "" {
		t.Errorf("splice mismatch (-want +got):\n%s", diff)
	}

	// Emptied rows are spliced out, and the emptied sequence is pruned.
	Unset(root, MustParse("rows[0].name"))
	Unset(root, MustParse("rows[0].name"))
	Unset(root, MustParse("rows[0]")) // already gone: no-op

	if _, ok := root["rows"]; ok {
		t.Errorf("empty sequence not pruned: %v", root)
	}
}

func TestMergeBaseWins(t *testing.T) {
	base := Tree{
		"name":      "Ada",
		"subscribe": true,
		"address":   Tree{"city": "Oslo"},
	}
	overlay := Tree{
		"name":      "",
		"subscribe": false,
		"address":   Tree{"city": "", "zip": "0001"},
		"age":       nil,
	}

	got := Merge(base, overlay)

	want := Tree{
		"name":      "Ada",
		"subscribe": true,
		"address":   Tree{"city": "Oslo", "zip": "0001"},
		"age":       nil,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("merge mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeSlicesElementWise(t *testing.T) {
	base := Tree{"rows": []any{Tree{"name": "kept"}}}
	overlay := Tree{"rows": []any{Tree{"name": "", "qty": nil}, Tree{"name": ""}}}

	got := Merge(base, overlay)

	want := Tree{"rows": []any{
		Tree{"name": "kept", "qty": nil},
		Tree{"name": ""},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("merge mismatch (-want +got):\n%s", diff)
	}
}

func TestShape(t *testing.T) {
	data := Tree{"a": "x", "b": Tree{"c": 1}, "d": []any{"y", Tree{"e": true}}}

	got := Shape(data, false)

	want := Tree{"a": false, "b": Tree{"c": false}, "d": []any{false, Tree{"e": false}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("shape mismatch (-want +got):\n%s", diff)
	}
}

func TestCopyIsolatesMutation(t *testing.T) {
	orig := Tree{"a": Tree{"b": "x"}, "list": []any{1, 2}}
	cp := CopyTree(orig)

	Set(orig, MustParse("a.b"), "mutated")
	orig["list"].([]any)[0] = 99

	if v, _ := Get(cp, MustParse("a.b")); v != "x" {
		t.Errorf("copy leaked mutation: %v", v)
	}
	if cp["list"].([]any)[0] != 1 {
		t.Error("copied sequence leaked mutation")
	}
}

func TestSome(t *testing.T) {
	errs := Tree{"user": Tree{"email": "", "name": "required"}}
	truthy := func(v any) bool {
		s, ok := v.(string)
		return ok && s != ""
	}
	if !Some(errs, truthy) {
		t.Error("expected a truthy leaf")
	}
	if Some(Tree{"a": "", "b": Tree{"c": ""}}, truthy) {
		t.Error("expected no truthy leaf")
	}
}
