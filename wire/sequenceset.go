package wire

import "github.com/coalooball/imap-codec/imap"

// readSeqBound reads one sequence-set bound: "*" or an unsigned number.
func (s *scanner) readSeqBound() (imap.SeqBound, error) {
	if b, ok := s.peek(); ok && b == '*' {
		s.advance(1)
		return imap.SeqBound{Star: true}, nil
	}
	n, err := s.readNumber()
	if err != nil {
		return imap.SeqBound{}, err
	}
	return imap.SeqBound{Num: n}, nil
}

// readSeqElem reads one comma-separated element of a sequence set: a
// bound, optionally followed by ":" and a second bound.
func (s *scanner) readSeqElem() (imap.SeqElem, error) {
	lo, err := s.readSeqBound()
	if err != nil {
		return imap.SeqElem{}, err
	}
	b, ok := s.peek()
	if !ok {
		// A number bound can only have reached here once readAtom/readNumber
		// already confirmed a following delimiter byte exists. A "*" bound
		// has no such guarantee, since "*" is never extended by more atom
		// characters but could still be followed by ":" once more bytes
		// arrive; wait rather than guess.
		if lo.Star {
			return imap.SeqElem{}, incomplete()
		}
		return imap.SeqElem{Lo: lo}, nil
	}
	if b == ':' {
		s.advance(1)
		hi, err := s.readSeqBound()
		if err != nil {
			return imap.SeqElem{}, err
		}
		return imap.SeqElem{Range: true, Lo: lo, Hi: hi}, nil
	}
	return imap.SeqElem{Lo: lo}, nil
}

// readSequenceSet reads a non-empty comma-separated list of sequence-set
// elements.
func (s *scanner) readSequenceSet() (imap.SequenceSet, error) {
	var set imap.SequenceSet
	for {
		elem, err := s.readSeqElem()
		if err != nil {
			return imap.SequenceSet{}, err
		}
		set.Elems = append(set.Elems, elem)
		b, ok := s.peek()
		if !ok {
			return set, nil
		}
		if b != ',' {
			return set, nil
		}
		s.advance(1)
	}
}
