package session

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// Ticket identifies one request against a resource.
type Ticket struct {
	Resource string
	Seq      uint64
}

// Sequencer issues increasing tickets per resource so that only the response
// to the most recently issued request is applied.
type Sequencer struct {
	latest *xsync.MapOf[string, uint64]
}

func NewSequencer() *Sequencer {
	return &Sequencer{latest: xsync.NewMapOf[string, uint64]()}
}

func (s *Sequencer) Begin(resource string) Ticket {
	seq, _ := s.latest.Compute(resource, func(old uint64, _ bool) (uint64, bool) {
		return old + 1, false
	})
	return Ticket{Resource: resource, Seq: seq}
}

func (s *Sequencer) IsLatest(t Ticket) bool {
	seq, ok := s.latest.Load(t.Resource)
	return ok && seq == t.Seq
}
