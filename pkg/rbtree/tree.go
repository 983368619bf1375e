// Package rbtree implements an order statistic tree: a red-black tree where
// every node also tracks the size of its subtree. Insertion and deletion stay
// O(log n) regardless of insertion order, and the subtree sizes give O(log n)
// rank and select.
//
// A Tree is not safe for concurrent use. Callers that share one tree between
// goroutines must serialize every call, reads included.
package rbtree

import "errors"

var (
	// ErrFull is returned by Insert when the tree already holds its configured
	// capacity. The tree is left unchanged.
	ErrFull = errors.New("rbtree: tree is at capacity")
	// ErrStaleItem is returned by Erase for an item that was already erased.
	ErrStaleItem = errors.New("rbtree: item was already erased")
	// ErrForeignItem is returned by Erase for an item that belongs to a
	// different tree.
	ErrForeignItem = errors.New("rbtree: item belongs to another tree")
)

// Item is the handle to a value stored in a Tree. It stays valid until it is
// passed to Erase; rebalancing never moves a value away from its item.
type Item[T any] struct {
	value T
	node  *node[T]
	tree  *Tree[T]
}

// Value returns the stored value.
func (it *Item[T]) Value() T {
	return it.value
}

// Index returns the 0-based position of the item in sorted order, or false if
// the item has been erased.
func (it *Item[T]) Index() (int, bool) {
	if it.node == nil {
		return -1, false
	}
	return it.tree.rank(it.node), true
}

// Option configures a Tree.
type Option func(*options)

type options struct {
	capacity int
}

// WithCapacity bounds the number of values the tree may hold. Zero or a
// negative value means unbounded.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// Tree is an order statistic tree over values of type T ordered by less.
type Tree[T any] struct {
	root     *node[T]
	less     func(a, b T) bool
	len      int
	capacity int
}

// New returns an empty tree ordered by less, which must be a strict weak
// ordering. Nothing is allocated until the first insertion.
func New[T any](less func(a, b T) bool, opts ...Option) *Tree[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Tree[T]{
		less:     less,
		capacity: max(o.capacity, 0),
	}
}

// Len returns the number of values in the tree.
func (t *Tree[T]) Len() int {
	return t.len
}

// Capacity returns the configured bound on Len, or zero when unbounded.
func (t *Tree[T]) Capacity() int {
	return t.capacity
}

// Insert stores value and returns its item. Values equal to existing ones are
// placed after them.
func (t *Tree[T]) Insert(value T) (*Item[T], error) {
	if t.capacity > 0 && t.len >= t.capacity {
		return nil, ErrFull
	}

	item := &Item[T]{value: value, tree: t}
	t.insert(newNode(item))
	t.len++
	return item, nil
}

// Erase removes item from the tree. Erasing a nil item is a no-op. After a
// successful call the item is stale and every further Erase of it fails with
// ErrStaleItem.
func (t *Tree[T]) Erase(item *Item[T]) error {
	if item == nil {
		return nil
	}
	if item.node == nil {
		return ErrStaleItem
	}
	if item.tree != t {
		return ErrForeignItem
	}

	t.erase(item.node)
	t.len--
	return nil
}
