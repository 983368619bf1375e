package rbtree

// This file holds the node record of the order statistic tree. Every node
// tracks the number of nodes in the subtree rooted at it, which is what makes
// rank and select run in O(log n).

type color bool

const (
	black color = false
	red   color = true
)

type direction int

const (
	left  direction = 0
	right direction = 1
)

func (d direction) opposite() direction {
	return 1 - d
}

func (d direction) String() string {
	if d == left {
		return "left"
	}
	return "right"
}

type node[T any] struct {
	parent *node[T]
	child  [2]*node[T]
	size   int // Number of nodes in the subtree rooted at this node
	color  color
	item   *Item[T]
}

// newNode wraps an item as a fresh red leaf.
func newNode[T any](item *Item[T]) *node[T] {
	n := &node[T]{
		size:  1,
		color: red,
		item:  item,
	}
	item.node = n
	return n
}

func size[T any](n *node[T]) int {
	if n == nil {
		return 0
	}
	return n.size
}

func isRed[T any](n *node[T]) bool {
	return n != nil && n.color == red
}

func isBlack[T any](n *node[T]) bool {
	return !isRed(n)
}

// dir reports which child of its parent n is. n must have a parent.
func (n *node[T]) dir() direction {
	if n == n.parent.child[right] {
		return right
	}
	return left
}

func (n *node[T]) updateSize() {
	n.size = 1 + size(n.child[left]) + size(n.child[right])
}

func leftmost[T any](n *node[T]) *node[T] {
	for n.child[left] != nil {
		n = n.child[left]
	}
	return n
}

func rightmost[T any](n *node[T]) *node[T] {
	for n.child[right] != nil {
		n = n.child[right]
	}
	return n
}
