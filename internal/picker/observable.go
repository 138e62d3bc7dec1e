package picker

// Signal delivers events to subscribers. It has no lock: publishing and
// subscribing happen on the engine's owning goroutine.
type Signal[T any] struct {
	next int
	subs map[int]func(T)
	// order keeps delivery in subscription order.
	order []int
}

func (s *Signal[T]) Subscribe(fn func(T)) (cancel func()) {
	if s.subs == nil {
		s.subs = make(map[int]func(T))
	}
	id := s.next
	s.next++
	s.subs[id] = fn
	s.order = append(s.order, id)
	return func() {
		if _, ok := s.subs[id]; !ok {
			return
		}
		delete(s.subs, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

func (s *Signal[T]) publish(v T) {
	ids := append([]int(nil), s.order...)
	for _, id := range ids {
		if fn, ok := s.subs[id]; ok {
			fn(v)
		}
	}
}

// Value is a piece of engine state that notifies subscribers when it
// changes. Setting an equal value is silent. Consumers that redraw after
// every message, like a bubbletea model, may poll Get instead.
type Value[T any] struct {
	Signal[T]
	v     T
	equal func(a, b T) bool
}

func newValue[T any](initial T, equal func(a, b T) bool) *Value[T] {
	return &Value[T]{v: initial, equal: equal}
}

func newComparable[T comparable](initial T) *Value[T] {
	return newValue(initial, func(a, b T) bool { return a == b })
}

func (v *Value[T]) Get() T {
	return v.v
}

func (v *Value[T]) set(next T) {
	if v.equal != nil && v.equal(v.v, next) {
		return
	}
	v.v = next
	v.publish(next)
}
