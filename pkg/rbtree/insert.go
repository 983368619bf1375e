package rbtree

func (t *Tree[T]) insert(n *node[T]) {
	var parent *node[T]
	d := left
	for current := t.root; current != nil; current = current.child[d] {
		parent = current
		if t.less(n.item.value, current.item.value) {
			d = left
		} else {
			d = right
		}
	}

	if parent == nil {
		n.color = black
		t.root = n
		return
	}

	parent.child[d] = n
	n.parent = parent
	for current := parent; current != nil; current = current.parent {
		current.size++
	}

	t.insertFixup(n)
}

// insertFixup repairs the red-red edge that attaching the red node n may have
// created.
func (t *Tree[T]) insertFixup(n *node[T]) {
	for n.parent != nil && n.parent.color == red {
		parent := n.parent
		grand := parent.parent // a red node is never the root
		pd := parent.dir()
		uncle := grand.child[pd.opposite()]

		if isRed(uncle) {
			parent.color = black
			uncle.color = black
			grand.color = red
			n = grand
			continue
		}

		if n.dir() != pd {
			t.rotate(&grand.child[pd], pd)
			n, parent = parent, n
		}

		parent.color = black
		grand.color = red
		t.rotate(t.slotOf(grand), pd.opposite())
		break
	}
	t.root.color = black
}
