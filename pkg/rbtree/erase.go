package rbtree

func (t *Tree[T]) erase(n *node[T]) {
	if n.child[left] != nil && n.child[right] != nil {
		succ := leftmost(n.child[right])
		n.item, succ.item = succ.item, n.item
		n.item.node = n
		succ.item.node = succ
		n = succ
	}

	// n has at most one child from here on.
	child := n.child[left]
	if child == nil {
		child = n.child[right]
	}

	parent := n.parent
	d := left
	if parent != nil {
		d = n.dir()
	}
	*t.slotOf(n) = child
	if child != nil {
		child.parent = parent
	}
	for current := parent; current != nil; current = current.parent {
		current.size--
	}

	if n.color == black {
		t.eraseFixup(child, parent, d)
	}

	n.item.node = nil
	n.item.tree = nil
	n.item = nil
	n.parent = nil
	n.child = [2]*node[T]{}
}

// eraseFixup resolves the missing black left at the d-side child slot of
// parent, currently holding x (possibly nil).
func (t *Tree[T]) eraseFixup(x, parent *node[T], d direction) {
	for parent != nil && isBlack(x) {
		// Black height guarantees the sibling of a double-black slot exists.
		sib := parent.child[d.opposite()]
		if sib.color == red {
			sib.color = black
			parent.color = red
			t.rotate(t.slotOf(parent), d)
			sib = parent.child[d.opposite()]
		}

		near, far := sib.child[d], sib.child[d.opposite()]
		if isBlack(near) && isBlack(far) {
			sib.color = red
			x = parent
			parent = x.parent
			if parent != nil {
				d = x.dir()
			}
			continue
		}

		if isBlack(far) {
			near.color = black
			sib.color = red
			t.rotate(&parent.child[d.opposite()], d.opposite())
			sib = parent.child[d.opposite()]
			far = sib.child[d.opposite()]
		}

		sib.color = parent.color
		parent.color = black
		far.color = black
		t.rotate(t.slotOf(parent), d)
		x = t.root
		break
	}

	if x != nil {
		x.color = black
	}
}
