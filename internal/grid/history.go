package grid

// History records the keys handed out so far. It only grows.
type History struct {
	seen  map[Key]struct{}
	order []Key
}

func NewHistory() *History {
	return &History{seen: make(map[Key]struct{})}
}

// Add records k and reports whether it was new.
func (h *History) Add(k Key) bool {
	if _, ok := h.seen[k]; ok {
		return false
	}
	h.seen[k] = struct{}{}
	h.order = append(h.order, k)
	return true
}

func (h *History) Has(k Key) bool {
	_, ok := h.seen[k]
	return ok
}

func (h *History) Len() int { return len(h.order) }

// Keys returns the recorded keys in insertion order.
func (h *History) Keys() []Key {
	out := make([]Key, len(h.order))
	copy(out, h.order)
	return out
}
