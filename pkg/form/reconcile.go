package form

import (
	"github.com/formic-dev/formic/pkg/ctree"
	"github.com/formic-dev/formic/pkg/path"
)

// reconcile consumes one structural mutation batch. Batches are
// delivered one at a time by the tree; processing is atomic relative to
// reads of the control tree because everything runs on the same
// event-driven goroutine.
func (b *Binding) reconcile(batch []ctree.MutationRecord) {
	var added, removed []*ctree.Node
	for _, rec := range batch {
		for _, n := range rec.Added {
			added = append(added, controlsUnder(n)...)
		}
		for _, n := range rec.Removed {
			removed = append(removed, controlsUnder(n)...)
		}
	}

	if len(added) > 0 {
		b.grow()
	}
	if len(removed) > 0 {
		b.shrink(removed)
	}
}

// controlsUnder collects control elements in n's subtree in document
// order, including n itself.
func controlsUnder(n *ctree.Node) []*ctree.Node {
	var out []*ctree.Node
	n.Walk(func(c *ctree.Node) {
		if ctree.IsControl(c) {
			out = append(out, c)
		}
	})
	return out
}

// grow handles a growth event: a structural re-baseline, not a reset.
// Extenders are remounted, defaults for the whole current tree are
// recomputed and deep-merged under live state (store wins, defaults
// only fill gaps), and the touched shadow picks up false entries for
// the new paths.
func (b *Binding) grow() {
	b.mountExtenders(StageUpdate)

	defaults := Defaults(b.root)
	b.Data.Update(func(d path.Tree) path.Tree {
		return path.Merge(d, defaults)
	})
	b.Touched.Update(func(t path.Tree) path.Tree {
		return path.Merge(t, path.Shape(defaults, false).(path.Tree))
	})
	b.logger().Debug("formic: reconciled control growth")
}

// shrink handles a shrink event: removed control paths are unset from
// every tree unless the control carries the keep-on-remove marker.
// Controls are processed in reverse document order so leaf paths are
// unset before their ancestors, which also matches the index-shift
// semantics of removing list rows.
func (b *Binding) shrink(removed []*ctree.Node) {
	b.mountExtenders(StageUpdate)

	for i := len(removed) - 1; i >= 0; i-- {
		ctl := removed[i]
		if ctl.Ignored() || ctl.KeepOnRemove() {
			continue
		}
		p, ok := path.ResolvePath(ctl)
		if !ok {
			continue
		}
		unset := func(t path.Tree) path.Tree { return path.Unset(t, p) }
		b.Data.Update(unset)
		b.Touched.Update(unset)
		b.Errors.Update(unset)
		b.Warnings.Update(unset)
	}
	b.logger().Debug("formic: reconciled control removal", "count", len(removed))
}
