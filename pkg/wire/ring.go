package wire

// Ring is a fixed capacity byte queue.
type Ring struct {
	buf  []byte
	head int
	len  int
}

// NewRing creates a ring holding up to size bytes.
func NewRing(size int) *Ring {
	return &Ring{buf: make([]byte, size)}
}

// Len returns the number of queued bytes.
func (r *Ring) Len() int {
	return r.len
}

// Cap returns the capacity.
func (r *Ring) Cap() int {
	return len(r.buf)
}

// Free returns the number of bytes that can still be pushed.
func (r *Ring) Free() int {
	return len(r.buf) - r.len
}

// Push appends a byte, it returns false if the ring is full.
func (r *Ring) Push(b byte) bool {
	if r.len >= len(r.buf) {
		return false
	}
	r.buf[(r.head+r.len)%len(r.buf)] = b
	r.len++
	return true
}

// PushAll appends all bytes or none of them.
func (r *Ring) PushAll(p ...byte) bool {
	if len(p) > r.Free() {
		return false
	}
	for _, b := range p {
		r.Push(b)
	}
	return true
}

// Pop removes the oldest byte, 0 if empty.
func (r *Ring) Pop() (b byte, ok bool) {
	if r.len == 0 {
		return 0, false
	}
	b = r.buf[r.head]
	r.head = (r.head + 1) % len(r.buf)
	r.len--
	return b, true
}

// Drain removes and returns all queued bytes.
func (r *Ring) Drain() []byte {
	out := make([]byte, 0, r.len)
	for r.len > 0 {
		b, _ := r.Pop()
		out = append(out, b)
	}
	r.head = 0
	return out
}

// Reset empties the ring.
func (r *Ring) Reset() {
	r.head, r.len = 0, 0
}
