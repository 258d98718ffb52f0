package netio

// ConstBuf is an immutable, cheaply-copyable view of a byte slice. Once
// constructed it must not be mutated by any holder; copies share the
// same backing array, which is safe precisely because nobody writes to
// it.
type ConstBuf struct {
	b []byte
}

// NewConstBuf wraps b as a ConstBuf. The caller must not mutate b after
// this call.
func NewConstBuf(b []byte) ConstBuf {
	return ConstBuf{b: b}
}

// Data returns the underlying bytes. Callers must treat the result as
// read-only.
func (c ConstBuf) Data() []byte {
	return c.b
}

// Size returns the number of bytes in the buffer.
func (c ConstBuf) Size() int {
	return len(c.b)
}

// MutBuf is a single-owner, growable byte builder. It is convertible to
// a ConstBuf by Freeze, after which the MutBuf must not be reused.
type MutBuf struct {
	b []byte
}

// NewMutBuf returns an empty MutBuf with the given initial capacity hint.
func NewMutBuf(capHint int) *MutBuf {
	return &MutBuf{b: make([]byte, 0, capHint)}
}

// Append appends bytes to the buffer.
func (m *MutBuf) Append(p []byte) {
	m.b = append(m.b, p...)
}

// Resize truncates or zero-extends the buffer to exactly n bytes.
func (m *MutBuf) Resize(n int) {
	if n <= len(m.b) {
		m.b = m.b[:n]
		return
	}
	m.b = append(m.b, make([]byte, n-len(m.b))...)
}

// Len returns the current length of the buffer.
func (m *MutBuf) Len() int {
	return len(m.b)
}

// Bytes exposes the buffer's contents directly for in-place reads
// (e.g. io.Reader targets). The slice is only valid until the next
// Append or Resize.
func (m *MutBuf) Bytes() []byte {
	return m.b
}

// Freeze converts the MutBuf into a ConstBuf. The MutBuf must not be
// used again after this call.
func (m *MutBuf) Freeze() ConstBuf {
	b := m.b
	m.b = nil
	return ConstBuf{b: b}
}
