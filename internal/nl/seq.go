package nl

// Sequence allocates strictly increasing sequence numbers for one session,
// starting at 1. It is not safe for concurrent use; the session owns it and
// the session itself is single-owner.
type Sequence struct {
	next uint32
}

// Next returns the next sequence number.
func (s *Sequence) Next() uint32 {
	s.next++
	return s.next
}
