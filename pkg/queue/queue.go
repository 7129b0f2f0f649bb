// Package queue is a doubly linked queue of strings. It is the reference
// operation whose timing the command line tool checks.
package queue

// Element is one queued value.
type Element struct {
	Value string

	prev, next *Element
}

// Queue is a circular doubly linked list with a sentinel head.
// The zero value is not usable; call New.
type Queue struct {
	head Element
	size int
}

func New() *Queue {
	q := &Queue{}
	q.head.prev = &q.head
	q.head.next = &q.head
	return q
}

func (q *Queue) Empty() bool {
	return q.head.next == &q.head
}

func (q *Queue) Size() int {
	return q.size
}

func insertAfter(at *Element, s string) {
	e := &Element{Value: s, prev: at, next: at.next}
	at.next.prev = e
	at.next = e
}

func (q *Queue) unlink(e *Element) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.prev, e.next = nil, nil
}

// InsertHead puts s at the front.
func (q *Queue) InsertHead(s string) {
	insertAfter(&q.head, s)
	q.size++
}

// InsertTail puts s at the back.
func (q *Queue) InsertTail(s string) {
	insertAfter(q.head.prev, s)
	q.size++
}

// RemoveHead unlinks the first element and returns it, or nil if the queue
// is empty. If buf is not empty, the removed value is copied into it,
// truncated to len(buf)-1 bytes and NUL terminated.
func (q *Queue) RemoveHead(buf []byte) *Element {
	if q.Empty() {
		return nil
	}
	return q.remove(q.head.next, buf)
}

// RemoveTail is RemoveHead for the last element.
func (q *Queue) RemoveTail(buf []byte) *Element {
	if q.Empty() {
		return nil
	}
	return q.remove(q.head.prev, buf)
}

func (q *Queue) remove(e *Element, buf []byte) *Element {
	if len(buf) > 0 {
		n := copy(buf[:len(buf)-1], e.Value)
		buf[n] = 0
	}
	q.unlink(e)
	q.size--
	return e
}

// DeleteMid removes the middle element, the ⌊n/2⌋-th counting from zero.
// It reports false on an empty queue.
func (q *Queue) DeleteMid() bool {
	if q.Empty() {
		return false
	}
	slow, fast := q.head.next, q.head.next
	for fast != &q.head && fast.next != &q.head {
		slow = slow.next
		fast = fast.next.next
	}
	q.unlink(slow)
	q.size--
	return true
}

// Release drops every element, leaving the queue empty and reusable.
func (q *Queue) Release() {
	for e := q.head.next; e != &q.head; {
		next := e.next
		e.prev, e.next = nil, nil
		e = next
	}
	q.head.prev = &q.head
	q.head.next = &q.head
	q.size = 0
}
