package workload

import (
	"io"
)

// entropy reads random bytes from src into a buffer reused across batches.
type entropy struct {
	src io.Reader
	buf []byte
}

func (e *entropy) fill(n int) ([]byte, error) {
	if cap(e.buf) < n {
		e.buf = make([]byte, n)
	}
	b := e.buf[:n]
	if _, err := io.ReadFull(e.src, b); err != nil {
		return nil, err
	}
	return b, nil
}

// randomString returns n random lowercase letters.
func randomString(src io.Reader, n int) (string, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(src, b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = 'a' + b[i]%26
	}
	return string(b), nil
}
