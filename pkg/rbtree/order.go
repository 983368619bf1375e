package rbtree

// Rank returns the number of values in the tree strictly less than value.
func (t *Tree[T]) Rank(value T) int {
	r := 0
	for current := t.root; current != nil; {
		if t.less(current.item.value, value) {
			r += size(current.child[left]) + 1
			current = current.child[right]
		} else {
			current = current.child[left]
		}
	}
	return r
}

// Select returns the item at the 0-based position index in sorted order.
func (t *Tree[T]) Select(index int) (*Item[T], bool) {
	if index < 0 || index >= t.len {
		return nil, false
	}
	current := t.root
	remaining := index
	for current != nil {
		leftSize := size(current.child[left])
		if remaining < leftSize {
			current = current.child[left]
			continue
		}
		remaining -= leftSize
		if remaining == 0 {
			return current.item, true
		}
		remaining--
		current = current.child[right]
	}
	return nil, false
}

// Find returns the first item, in sorted order, equal to value.
func (t *Tree[T]) Find(value T) (*Item[T], bool) {
	var found *node[T]
	for current := t.root; current != nil; {
		if t.less(current.item.value, value) {
			current = current.child[right]
			continue
		}
		if !t.less(value, current.item.value) {
			found = current
		}
		current = current.child[left]
	}
	if found == nil {
		return nil, false
	}
	return found.item, true
}

// Min returns the item holding the smallest value.
func (t *Tree[T]) Min() (*Item[T], bool) {
	if t.root == nil {
		return nil, false
	}
	return leftmost(t.root).item, true
}

// Max returns the item holding the largest value.
func (t *Tree[T]) Max() (*Item[T], bool) {
	if t.root == nil {
		return nil, false
	}
	return rightmost(t.root).item, true
}

// Values returns all values in ascending order, including duplicates.
func (t *Tree[T]) Values() []T {
	result := make([]T, 0, t.len)
	t.appendValues(t.root, &result)
	return result
}

func (t *Tree[T]) appendValues(n *node[T], out *[]T) {
	if n == nil {
		return
	}
	t.appendValues(n.child[left], out)
	*out = append(*out, n.item.value)
	t.appendValues(n.child[right], out)
}

// rank returns the position of n by walking up to the root.
func (t *Tree[T]) rank(n *node[T]) int {
	r := size(n.child[left])
	for y := n; y.parent != nil; y = y.parent {
		if y.dir() == right {
			r += size(y.parent.child[left]) + 1
		}
	}
	return r
}
