package queue

// Values returns the queued strings from head to tail.
func (q *Queue) Values() []string {
	out := make([]string, 0, q.size)
	for e := q.head.next; e != &q.head; e = e.next {
		out = append(out, e.Value)
	}
	return out
}
