package ctree

// MutationRecord describes one child-list change.
type MutationRecord struct {
	// Target is the node whose child list changed.
	Target *Node

	Added   []*Node
	Removed []*Node
}

// Observer receives batches of mutation records for structural changes
// anywhere under the node it was registered on (child-list plus
// subtree granularity; attribute changes are not reported).
type Observer struct {
	node   *Node
	fn     func([]MutationRecord)
	active bool
}

// Observe registers an observer on this node. Batches are delivered
// synchronously, one batch per mutating call, after the tree change has
// been applied. The host guarantees one batch finishes delivery before
// the next mutation produces another.
func (n *Node) Observe(fn func([]MutationRecord)) *Observer {
	o := &Observer{node: n, fn: fn, active: true}
	n.observers = append(n.observers, o)
	return o
}

// Disconnect stops delivery to this observer.
func (o *Observer) Disconnect() {
	if !o.active {
		return
	}
	o.active = false
	obs := o.node.observers
	for i, cur := range obs {
		if cur == o {
			o.node.observers = append(obs[:i], obs[i+1:]...)
			return
		}
	}
}

// AppendChild adds c as the last child of n and notifies observers.
func (n *Node) AppendChild(c *Node) {
	c.detach()
	c.parent = n
	n.Children = append(n.Children, c)
	n.deliver(MutationRecord{Target: n, Added: []*Node{c}})
}

// InsertBefore inserts c before ref among n's children. A nil ref
// appends.
func (n *Node) InsertBefore(c, ref *Node) {
	if ref == nil {
		n.AppendChild(c)
		return
	}
	c.detach()
	c.parent = n
	for i, cur := range n.Children {
		if cur == ref {
			n.Children = append(n.Children[:i], append([]*Node{c}, n.Children[i:]...)...)
			n.deliver(MutationRecord{Target: n, Added: []*Node{c}})
			return
		}
	}
	// ref not found: fall back to append, consistent with DOM throwing
	// being unhelpful in a tree we fully own.
	n.Children = append(n.Children, c)
	n.deliver(MutationRecord{Target: n, Added: []*Node{c}})
}

// RemoveChild removes c from n's children and notifies observers.
// Removing a node that is not a child is a no-op.
func (n *Node) RemoveChild(c *Node) {
	for i, cur := range n.Children {
		if cur == c {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			c.parent = nil
			n.deliver(MutationRecord{Target: n, Removed: []*Node{c}})
			return
		}
	}
}

// detach silently unlinks the node from its current parent. Used when a
// node is re-homed by AppendChild/InsertBefore; the removal side is not
// reported, matching how the engine only cares about where controls end
// up.
func (n *Node) detach() {
	p := n.parent
	if p == nil {
		return
	}
	for i, cur := range p.Children {
		if cur == n {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// deliver sends one batch to every observer registered on the target or
// any of its ancestors.
func (n *Node) deliver(rec MutationRecord) {
	batch := []MutationRecord{rec}
	for cur := n; cur != nil; cur = cur.parent {
		obs := append([]*Observer(nil), cur.observers...)
		for _, o := range obs {
			if o.active {
				o.fn(batch)
			}
		}
	}
}
