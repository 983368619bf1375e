package rbtree

// slotOf returns the link that holds n: the root slot of the tree or the
// matching child slot of n's parent.
func (t *Tree[T]) slotOf(n *node[T]) **node[T] {
	if n.parent == nil {
		return &t.root
	}
	return &n.parent.child[n.dir()]
}

// rotate promotes the child of *slot on the side opposite d into the slot.
// The promoted node's d-side child moves under the old subtree root. Only the
// two nodes that swap places get new sizes.
func (t *Tree[T]) rotate(slot **node[T], d direction) {
	r := *slot
	up := r.child[d.opposite()]
	if up == nil {
		panic("rbtree: rotate " + d.String() + " without a " + d.opposite().String() + " child")
	}

	inner := up.child[d]
	r.child[d.opposite()] = inner
	if inner != nil {
		inner.parent = r
	}

	up.parent = r.parent
	up.child[d] = r
	r.parent = up
	*slot = up

	up.size = r.size
	r.updateSize()
}
