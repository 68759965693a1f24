package powers

// Power is a named stacking modifier with an integer magnitude.
type Power struct {
	ID     string
	Amount int
}

// Set manages the powers held by a single creature.
// Insertion order is preserved so that reactions fire in a stable order.
type Set struct {
	Powers []Power
}

// NewSet creates a set from the given powers, dropping empty entries.
func NewSet(ps ...Power) Set {
	var s Set
	for _, p := range ps {
		s.Set(p.ID, p.Amount)
	}
	return s
}

func (s *Set) index(id string) int {
	for i := range s.Powers {
		if s.Powers[i].ID == id {
			return i
		}
	}
	return -1
}

// Amount returns the magnitude of the power, or 0 if absent.
func (s Set) Amount(id string) int {
	for _, p := range s.Powers {
		if p.ID == id {
			return p.Amount
		}
	}
	return 0
}

// Has returns true if the power is present, including persistent powers at zero.
func (s Set) Has(id string) bool {
	for _, p := range s.Powers {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Add changes the power's amount by delta, creating it if needed.
// Returns the resulting amount.
func (s *Set) Add(id string, delta int) int {
	if i := s.index(id); i >= 0 {
		s.setAt(i, s.Powers[i].Amount+delta)
		return s.Amount(id)
	}
	s.Set(id, delta)
	return s.Amount(id)
}

// Remove lowers the power's amount by n.
// Returns true if the power was present.
func (s *Set) Remove(id string, n int) bool {
	i := s.index(id)
	if i < 0 || n <= 0 {
		return false
	}
	s.setAt(i, s.Powers[i].Amount-n)
	return true
}

// Set overwrites the power's amount.
func (s *Set) Set(id string, amount int) {
	if id == "" {
		return
	}
	if i := s.index(id); i >= 0 {
		s.setAt(i, amount)
		return
	}
	if !keep(id, amount) {
		return
	}
	s.Powers = append(s.Powers, Power{ID: id, Amount: normalize(id, amount)})
}

// Delete removes the power regardless of its amount.
func (s *Set) Delete(id string) {
	if i := s.index(id); i >= 0 {
		s.Powers = append(s.Powers[:i:i], s.Powers[i+1:]...)
	}
}

// IDs returns the power ids in order.
func (s Set) IDs() []string {
	ids := make([]string, len(s.Powers))
	for i, p := range s.Powers {
		ids[i] = p.ID
	}
	return ids
}

// Len returns the number of powers held.
func (s Set) Len() int {
	return len(s.Powers)
}

// Clone creates a deep copy of the set.
func (s Set) Clone() Set {
	if s.Powers == nil {
		return Set{}
	}
	cp := make([]Power, len(s.Powers))
	copy(cp, s.Powers)
	return Set{Powers: cp}
}

func (s *Set) setAt(i int, amount int) {
	id := s.Powers[i].ID
	if !keep(id, amount) {
		s.Powers = append(s.Powers[:i:i], s.Powers[i+1:]...)
		return
	}
	s.Powers[i].Amount = normalize(id, amount)
}

func keep(id string, amount int) bool {
	if amount == 0 {
		return persistent[id]
	}
	if amount < 0 && !signed[id] {
		return persistent[id]
	}
	return true
}

func normalize(id string, amount int) int {
	if amount < 0 && !signed[id] {
		return 0
	}
	return amount
}
