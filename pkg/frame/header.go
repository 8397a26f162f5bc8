package frame

// Header is an insertion-ordered set of STOMP header entries.
// Serialization walks entries in the order their names were first
// inserted; updating an existing name keeps its original position.
type Header struct {
	names  []string
	values map[string]string
}

// NewHeader creates an empty header set.
func NewHeader() *Header {
	return &Header{
		names:  make([]string, 0, 4),
		values: make(map[string]string),
	}
}

// Set inserts or updates an entry. A new name is appended to the
// insertion order; an existing name keeps its position.
func (h *Header) Set(name, value string) {
	if _, ok := h.values[name]; !ok {
		h.names = append(h.names, name)
	}
	h.values[name] = value
}

// SetIfAbsent inserts an entry only when the name is not present yet
// and reports whether it inserted. The text unmarshaller relies on this
// to make the first occurrence of a repeated header name win.
func (h *Header) SetIfAbsent(name, value string) bool {
	if _, ok := h.values[name]; ok {
		return false
	}
	h.names = append(h.names, name)
	h.values[name] = value
	return true
}

// Get returns the value for name and whether it is present.
func (h *Header) Get(name string) (string, bool) {
	v, ok := h.values[name]
	return v, ok
}

// Has reports whether name is present.
func (h *Header) Has(name string) bool {
	_, ok := h.values[name]
	return ok
}

// Del removes an entry. Removing a missing name is a no-op.
func (h *Header) Del(name string) {
	if _, ok := h.values[name]; !ok {
		return
	}
	delete(h.values, name)
	for i, n := range h.names {
		if n == name {
			h.names = append(h.names[:i], h.names[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries.
func (h *Header) Len() int {
	return len(h.names)
}

// Names returns the header names in insertion order.
func (h *Header) Names() []string {
	out := make([]string, len(h.names))
	copy(out, h.names)
	return out
}

// Map returns the entries as a plain map. Order is lost; intended for
// JSON reporting, not for serialization.
func (h *Header) Map() map[string]string {
	out := make(map[string]string, len(h.values))
	for k, v := range h.values {
		out[k] = v
	}
	return out
}

// Clone returns an independent copy preserving insertion order.
func (h *Header) Clone() *Header {
	c := &Header{
		names:  make([]string, len(h.names)),
		values: make(map[string]string, len(h.values)),
	}
	copy(c.names, h.names)
	for k, v := range h.values {
		c.values[k] = v
	}
	return c
}
