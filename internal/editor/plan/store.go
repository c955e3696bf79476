package plan

// ============================================================
// Element Store
// ============================================================

// Store keeps every element of one kind in placement order and hands
// out monotonically increasing ids. Seeded elements keep their ids;
// the counter resumes after the highest one.
type Store[T Element] struct {
	items  []T
	nextID int
}

func NewStore[T Element](seed []T) *Store[T] {
	s := &Store[T]{nextID: 1}
	for _, el := range seed {
		s.items = append(s.items, el)
		if el.ElementID() >= s.nextID {
			s.nextID = el.ElementID() + 1
		}
	}
	return s
}

// NextID reserves the id for the next placement.
func (s *Store[T]) NextID() int {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Store[T]) Add(el T) {
	s.items = append(s.items, el)
}

func (s *Store[T]) Get(id int) (T, bool) {
	for _, el := range s.items {
		if el.ElementID() == id {
			return el, true
		}
	}
	var zero T
	return zero, false
}

// Remove deletes the element with the given id. Returns false when it
// is no longer present.
func (s *Store[T]) Remove(id int) bool {
	for i, el := range s.items {
		if el.ElementID() == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store[T]) Items() []T {
	return s.items
}

func (s *Store[T]) Len() int {
	return len(s.items)
}
