package rbtree

import (
	"errors"
	"fmt"
)

// Check walks the whole tree and returns an error describing the first broken
// invariant: root color, red-red edges, black height, ordering, subtree sizes,
// parent links or the cached length.
func (t *Tree[T]) Check() error {
	if t.root == nil {
		if t.len != 0 {
			return fmt.Errorf("rbtree: empty tree reports len %d", t.len)
		}
		return nil
	}
	if t.root.parent != nil {
		return errors.New("rbtree: root has a parent")
	}
	if t.root.color != black {
		return errors.New("rbtree: root is red")
	}
	if _, err := t.checkNode(t.root); err != nil {
		return err
	}
	if t.root.size != t.len {
		return fmt.Errorf("rbtree: root size %d does not match len %d", t.root.size, t.len)
	}

	var prev *node[T]
	var err error
	t.walk(t.root, func(n *node[T]) {
		if err == nil && prev != nil && t.less(n.item.value, prev.item.value) {
			err = fmt.Errorf("rbtree: in-order values out of order at position %d", t.rank(n))
		}
		prev = n
	})
	return err
}

// checkNode returns the black height of the subtree rooted at n.
func (t *Tree[T]) checkNode(n *node[T]) (int, error) {
	if n == nil {
		return 1, nil
	}
	if n.item == nil || n.item.node != n || n.item.tree != t {
		return 0, errors.New("rbtree: node and item are not linked")
	}

	for _, d := range []direction{left, right} {
		c := n.child[d]
		if c == nil {
			continue
		}
		if c.parent != n {
			return 0, fmt.Errorf("rbtree: %s child has a wrong parent link", d)
		}
		if n.color == red && c.color == red {
			return 0, fmt.Errorf("rbtree: red node has a red %s child", d)
		}
	}

	lh, err := t.checkNode(n.child[left])
	if err != nil {
		return 0, err
	}
	rh, err := t.checkNode(n.child[right])
	if err != nil {
		return 0, err
	}
	if lh != rh {
		return 0, fmt.Errorf("rbtree: black height mismatch %d != %d", lh, rh)
	}
	if want := 1 + size(n.child[left]) + size(n.child[right]); n.size != want {
		return 0, fmt.Errorf("rbtree: node size %d, expected %d", n.size, want)
	}

	if n.color == black {
		lh++
	}
	return lh, nil
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (t *Tree[T]) Height() int {
	return height(t.root)
}

func height[T any](n *node[T]) int {
	if n == nil {
		return 0
	}
	return 1 + max(height(n.child[left]), height(n.child[right]))
}

func (t *Tree[T]) walk(n *node[T], fn func(*node[T])) {
	if n == nil {
		return
	}
	t.walk(n.child[left], fn)
	fn(n)
	t.walk(n.child[right], fn)
}
