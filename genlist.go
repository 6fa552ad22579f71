package textlayout

// genNode is a node in a doubly-linked generation list.
type genNode[V any] struct {
	value V
	prev  *genNode[V]
	next  *genNode[V]
}

// genList is a doubly-linked list ordered by insertion generation.
// The head is the oldest entry, the tail the newest. Unlike an LRU list
// there is no move-to-front: a cache hit does not change an entry's
// position, eviction is strictly oldest-first.
//
// The list is not thread-safe; callers must handle synchronization.
type genList[V any] struct {
	head *genNode[V]
	tail *genNode[V]
	len  int
}

// newGenList creates an empty generation list.
func newGenList[V any]() *genList[V] {
	return &genList[V]{}
}

// Len returns the number of nodes in the list.
func (l *genList[V]) Len() int {
	return l.len
}

// PushBack appends a new node at the tail (newest generation).
// Returns the created node for later access.
func (l *genList[V]) PushBack(value V) *genNode[V] {
	node := &genNode[V]{value: value}
	if l.tail == nil {
		// Empty list
		l.head = node
		l.tail = node
	} else {
		node.prev = l.tail
		l.tail.next = node
		l.tail = node
	}
	l.len++
	return node
}

// RemoveOldest removes and returns the value of the oldest node.
// Returns zero value and false if the list is empty.
func (l *genList[V]) RemoveOldest() (V, bool) {
	if l.head == nil {
		var zero V
		return zero, false
	}
	node := l.head
	l.unlink(node)
	return node.value, true
}

// Remove removes a node from the list.
func (l *genList[V]) Remove(node *genNode[V]) {
	if node == nil {
		return
	}
	l.unlink(node)
}

// Oldest returns the value of the oldest node without removing it.
// Returns zero value and false if the list is empty.
func (l *genList[V]) Oldest() (V, bool) {
	if l.head == nil {
		var zero V
		return zero, false
	}
	return l.head.value, true
}

// Clear removes all nodes from the list.
func (l *genList[V]) Clear() {
	l.head = nil
	l.tail = nil
	l.len = 0
}

// unlink removes a node from the list.
func (l *genList[V]) unlink(node *genNode[V]) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}

	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}

	node.prev = nil
	node.next = nil
	l.len--
}
