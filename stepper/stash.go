package stepper

import (
	"github.com/strangemother/hyperway/packer"
	"github.com/strangemother/hyperway/unit"
)

// Stash accumulates terminal results during a run. Entries are keyed by the
// terminal unit's id and preserve both first-arrival key order and per-key
// arrival order. The stash grows monotonically and is readable at any time.
type Stash struct {
	order []string
	units map[string]*unit.Unit
	packs map[string][]*packer.ArgsPack
}

// Entry couples a terminal unit with every pack that reached it.
type Entry struct {
	Unit  *unit.Unit
	Packs []*packer.ArgsPack
}

// NewStash creates an empty stash.
func NewStash() *Stash {
	return &Stash{
		units: make(map[string]*unit.Unit),
		packs: make(map[string][]*packer.ArgsPack),
	}
}

// Put appends a terminal pack under u's key.
func (s *Stash) Put(u *unit.Unit, pack *packer.ArgsPack) {
	id := u.ID()
	if _, ok := s.units[id]; !ok {
		s.units[id] = u
		s.order = append(s.order, id)
	}
	s.packs[id] = append(s.packs[id], pack)
}

// Packs returns the packs stashed under u, in arrival order.
func (s *Stash) Packs(u *unit.Unit) []*packer.ArgsPack {
	if u == nil {
		return nil
	}
	return s.packs[u.ID()]
}

// Units returns the terminal units in first-arrival order.
func (s *Stash) Units() []*unit.Unit {
	res := make([]*unit.Unit, 0, len(s.order))
	for _, id := range s.order {
		res = append(res, s.units[id])
	}
	return res
}

// Entries returns every stash entry in first-arrival key order.
func (s *Stash) Entries() []Entry {
	res := make([]Entry, 0, len(s.order))
	for _, id := range s.order {
		res = append(res, Entry{Unit: s.units[id], Packs: s.packs[id]})
	}
	return res
}

// Len returns the number of distinct terminal units.
func (s *Stash) Len() int { return len(s.order) }

// Size returns the total number of stashed packs.
func (s *Stash) Size() int {
	n := 0
	for _, packs := range s.packs {
		n += len(packs)
	}
	return n
}

// Flush returns every entry and resets the stash.
func (s *Stash) Flush() []Entry {
	res := s.Entries()
	s.order = nil
	s.units = make(map[string]*unit.Unit)
	s.packs = make(map[string][]*packer.ArgsPack)
	return res
}
