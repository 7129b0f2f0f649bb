package workload

import (
	"io"

	"github.com/pg-sharding/timeleak/pkg/engine"
	"github.com/pg-sharding/timeleak/pkg/queue"
)

type queueOp func(w *QueueWorkload, q *queue.Queue, size int)

// QueueWorkload runs one queue operation against either a queue holding a
// single element (class 0) or one holding 1 to 256 elements (class 1).
type QueueWorkload struct {
	op      queueOp
	payload string
	buf     []byte
	rnd     entropy
}

var (
	_ engine.Workload[*queue.Queue] = (*QueueWorkload)(nil)
	_ engine.Releaser[*queue.Queue] = (*QueueWorkload)(nil)
)

func newQueueWorkload(op queueOp, trialSize int, src io.Reader) (*QueueWorkload, error) {
	payload, err := randomString(src, max(trialSize-1, 0))
	if err != nil {
		return nil, err
	}
	return &QueueWorkload{
		op:      op,
		payload: payload,
		buf:     make([]byte, trialSize),
		rnd:     entropy{src: src},
	}, nil
}

func (w *QueueWorkload) Prepare(slots []*queue.Queue, classes []uint8) error {
	b, err := w.rnd.fill(2 * len(slots))
	if err != nil {
		return err
	}

	for i := range slots {
		if slots[i] == nil {
			slots[i] = queue.New()
		} else {
			slots[i].Release()
		}

		classes[i] = b[2*i] & 1
		n := 1
		if classes[i] == 1 {
			n += int(b[2*i+1])
		}
		for range n {
			slots[i].InsertHead(w.payload)
		}
	}
	return nil
}

func (w *QueueWorkload) Compute(size int, q *queue.Queue) {
	w.op(w, q, size)
}

func (w *QueueWorkload) Release(q *queue.Queue) {
	if q != nil {
		q.Release()
	}
}

func insertHead(w *QueueWorkload, q *queue.Queue, _ int) {
	q.InsertHead(w.payload)
}

func insertTail(w *QueueWorkload, q *queue.Queue, _ int) {
	q.InsertTail(w.payload)
}

func removeHead(w *QueueWorkload, q *queue.Queue, size int) {
	q.RemoveHead(w.buf[:min(size, len(w.buf))])
}

func removeTail(w *QueueWorkload, q *queue.Queue, size int) {
	q.RemoveTail(w.buf[:min(size, len(w.buf))])
}

func deleteMid(_ *QueueWorkload, q *queue.Queue, _ int) {
	q.DeleteMid()
}
