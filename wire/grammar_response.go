package wire

import (
	"strings"

	"github.com/coalooball/imap-codec/imap"
)

// parseResponse parses one server response line: a continuation
// request, a tagged status, or untagged data.
func parseResponse(s *scanner) (imap.Response, error) {
	b, ok := s.peek()
	if !ok {
		return imap.Response{}, incomplete()
	}
	if b == '+' {
		s.advance(1)
		if err := s.expectSP(); err != nil {
			return imap.Response{}, err
		}
		code, text, err := parseRespCodeAndText(s)
		if err != nil {
			return imap.Response{}, err
		}
		if err := s.expectCRLF(); err != nil {
			return imap.Response{}, err
		}
		return imap.Response{Continuation: &imap.Continuation{Code: code, Text: text}}, nil
	}
	if b == '*' {
		s.advance(1)
		if err := s.expectSP(); err != nil {
			return imap.Response{}, err
		}
		return parseUntagged(s)
	}
	tag, err := s.readTag()
	if err != nil {
		return imap.Response{}, err
	}
	if err := s.expectSP(); err != nil {
		return imap.Response{}, err
	}
	tok, err := s.readAtom()
	if err != nil {
		return imap.Response{}, err
	}
	kind, ok := validateStatusKind(tok, imap.StatusOK, imap.StatusNO, imap.StatusBAD)
	if !ok {
		return imap.Response{}, newErr(s.pos, GrammarViolation, "invalid tagged status kind %q", tok)
	}
	if err := s.expectSP(); err != nil {
		return imap.Response{}, err
	}
	code, text, err := parseRespCodeAndText(s)
	if err != nil {
		return imap.Response{}, err
	}
	if err := s.expectCRLF(); err != nil {
		return imap.Response{}, err
	}
	return imap.Response{Status: &imap.Status{Tag: imap.Tag(tag), Kind: kind, Code: code, Text: text}}, nil
}

func parseUntagged(s *scanner) (imap.Response, error) {
	b, ok := s.peek()
	if !ok {
		return imap.Response{}, incomplete()
	}
	if b >= '0' && b <= '9' {
		num, err := s.readNumber()
		if err != nil {
			return imap.Response{}, err
		}
		if err := s.expectSP(); err != nil {
			return imap.Response{}, err
		}
		verb, err := s.readAtom()
		if err != nil {
			return imap.Response{}, err
		}
		switch strings.ToUpper(verb) {
		case "EXISTS":
			if err := s.expectCRLF(); err != nil {
				return imap.Response{}, err
			}
			return imap.Response{Data: imap.Exists{Count: num}}, nil
		case "RECENT":
			if err := s.expectCRLF(); err != nil {
				return imap.Response{}, err
			}
			return imap.Response{Data: imap.Recent{Count: num}}, nil
		case "EXPUNGE":
			if err := s.expectCRLF(); err != nil {
				return imap.Response{}, err
			}
			return imap.Response{Data: imap.ExpungeData{SeqNum: num}}, nil
		case "FETCH":
			fd, err := parseFetchData(s, num)
			if err != nil {
				return imap.Response{}, err
			}
			if err := s.expectCRLF(); err != nil {
				return imap.Response{}, err
			}
			return imap.Response{Data: fd}, nil
		}
		return imap.Response{}, newErr(s.pos, GrammarViolation, "unknown numbered untagged data %q", verb)
	}

	verb, err := s.readAtom()
	if err != nil {
		return imap.Response{}, err
	}
	upper := strings.ToUpper(verb)
	if kind, ok := validateStatusKind(upper, imap.StatusOK, imap.StatusNO, imap.StatusBAD, imap.StatusBYE, imap.StatusPREAUTH); ok {
		if err := s.expectSP(); err != nil {
			return imap.Response{}, err
		}
		code, text, err := parseRespCodeAndText(s)
		if err != nil {
			return imap.Response{}, err
		}
		if err := s.expectCRLF(); err != nil {
			return imap.Response{}, err
		}
		return imap.Response{Status: &imap.Status{Kind: kind, Code: code, Text: text}}, nil
	}

	switch upper {
	case "FLAGS":
		if err := s.expectSP(); err != nil {
			return imap.Response{}, err
		}
		flags, err := parseFlagList(s)
		if err != nil {
			return imap.Response{}, err
		}
		if err := s.expectCRLF(); err != nil {
			return imap.Response{}, err
		}
		return imap.Response{Data: imap.FlagsData{Flags: flags}}, nil
	case "CAPABILITY":
		if err := s.expectSP(); err != nil {
			return imap.Response{}, err
		}
		caps, err := parseCapabilityAtoms(s)
		if err != nil {
			return imap.Response{}, err
		}
		if err := s.expectCRLF(); err != nil {
			return imap.Response{}, err
		}
		return imap.Response{Data: imap.CapabilityData{Caps: caps}}, nil
	case "LIST", "LSUB":
		ld, err := parseListData(s, upper == "LSUB")
		if err != nil {
			return imap.Response{}, err
		}
		if err := s.expectCRLF(); err != nil {
			return imap.Response{}, err
		}
		return imap.Response{Data: ld}, nil
	case "STATUS":
		sd, err := parseStatusData(s)
		if err != nil {
			return imap.Response{}, err
		}
		if err := s.expectCRLF(); err != nil {
			return imap.Response{}, err
		}
		return imap.Response{Data: sd}, nil
	case "SEARCH":
		sd, err := parseSearchData(s)
		if err != nil {
			return imap.Response{}, err
		}
		if err := s.expectCRLF(); err != nil {
			return imap.Response{}, err
		}
		return imap.Response{Data: sd}, nil
	case "VANISHED":
		vd, err := parseVanished(s)
		if err != nil {
			return imap.Response{}, err
		}
		if err := s.expectCRLF(); err != nil {
			return imap.Response{}, err
		}
		return imap.Response{Data: vd}, nil
	}
	return imap.Response{}, newErr(s.pos, GrammarViolation, "unknown untagged data %q", verb)
}

func parseVanished(s *scanner) (imap.Vanished, error) {
	if err := s.expectSP(); err != nil {
		return imap.Vanished{}, err
	}
	earlier := false
	if b, ok := s.peek(); ok && b == '(' {
		if err := s.expectByte('('); err != nil {
			return imap.Vanished{}, err
		}
		tok, err := s.readAtom()
		if err != nil {
			return imap.Vanished{}, err
		}
		if !strings.EqualFold(tok, "EARLIER") {
			return imap.Vanished{}, newErr(s.pos, GrammarViolation, "expected EARLIER, got %q", tok)
		}
		if err := s.expectByte(')'); err != nil {
			return imap.Vanished{}, err
		}
		if err := s.expectSP(); err != nil {
			return imap.Vanished{}, err
		}
		earlier = true
	}
	set, err := s.readSequenceSet()
	if err != nil {
		return imap.Vanished{}, err
	}
	return imap.Vanished{Earlier: earlier, UIDs: set}, nil
}

func parseDelim(s *scanner) (byte, bool, error) {
	b, ok := s.peek()
	if !ok {
		return 0, false, incomplete()
	}
	if b == '"' {
		s.advance(1)
		c, ok := s.peek()
		if !ok {
			return 0, false, incomplete()
		}
		s.advance(1)
		if err := s.expectByte('"'); err != nil {
			return 0, false, err
		}
		return c, true, nil
	}
	start := s.pos
	tok, err := s.readAtom()
	if err != nil {
		return 0, false, err
	}
	if !strings.EqualFold(tok, "NIL") {
		return 0, false, newErr(start, GrammarViolation, "expected quoted delimiter or NIL, got %q", tok)
	}
	return 0, false, nil
}

func parseListData(s *scanner, lsub bool) (imap.ListData, error) {
	if err := s.expectSP(); err != nil {
		return imap.ListData{}, err
	}
	var attrs []imap.MailboxAttr
	err := s.readParenList(func() error {
		f, err := s.readFlag()
		if err != nil {
			return err
		}
		attrs = append(attrs, imap.MailboxAttr(f))
		return nil
	})
	if err != nil {
		return imap.ListData{}, err
	}
	if err := s.expectSP(); err != nil {
		return imap.ListData{}, err
	}
	delim, hasDelim, err := parseDelim(s)
	if err != nil {
		return imap.ListData{}, err
	}
	if err := s.expectSP(); err != nil {
		return imap.ListData{}, err
	}
	name, err := s.readAString()
	if err != nil {
		return imap.ListData{}, err
	}
	return imap.ListData{Lsub: lsub, Attrs: attrs, Delim: delim, HasDelim: hasDelim, Mailbox: imap.NewMailbox(name)}, nil
}

func parseStatusData(s *scanner) (imap.StatusData, error) {
	if err := s.expectSP(); err != nil {
		return imap.StatusData{}, err
	}
	name, err := s.readAString()
	if err != nil {
		return imap.StatusData{}, err
	}
	sd := imap.StatusData{Mailbox: imap.NewMailbox(name)}
	if err := s.expectSP(); err != nil {
		return imap.StatusData{}, err
	}
	err = s.readParenList(func() error {
		item, err := s.readAtom()
		if err != nil {
			return err
		}
		if err := s.expectSP(); err != nil {
			return err
		}
		switch imap.StatusItem(strings.ToUpper(item)) {
		case imap.StatusItemMessages:
			n, err := s.readNumber()
			if err != nil {
				return err
			}
			sd.Messages = &n
		case imap.StatusItemRecent:
			n, err := s.readNumber()
			if err != nil {
				return err
			}
			sd.Recent = &n
		case imap.StatusItemUIDNext:
			n, err := s.readNumber()
			if err != nil {
				return err
			}
			sd.UIDNext = &n
		case imap.StatusItemUIDValidity:
			n, err := s.readNumber()
			if err != nil {
				return err
			}
			sd.UIDValidity = &n
		case imap.StatusItemUnseen:
			n, err := s.readNumber()
			if err != nil {
				return err
			}
			sd.Unseen = &n
		case imap.StatusItemHighestModSeq:
			n, err := s.readNumber64()
			if err != nil {
				return err
			}
			sd.HighestModSeq = &n
		default:
			return newErr(s.pos, GrammarViolation, "unknown STATUS item %q", item)
		}
		return nil
	})
	if err != nil {
		return imap.StatusData{}, err
	}
	return sd, nil
}

func parseSearchData(s *scanner) (imap.SearchData, error) {
	var sd imap.SearchData
	for {
		b, ok := s.peek()
		if !ok {
			return imap.SearchData{}, incomplete()
		}
		if b != ' ' {
			break
		}
		s.advance(1)
		nb, ok := s.peek()
		if !ok {
			return imap.SearchData{}, incomplete()
		}
		if nb == '(' {
			s.advance(1)
			tok, err := s.readAtom()
			if err != nil {
				return imap.SearchData{}, err
			}
			if !strings.EqualFold(tok, "MODSEQ") {
				return imap.SearchData{}, newErr(s.pos, GrammarViolation, "expected MODSEQ, got %q", tok)
			}
			if err := s.expectSP(); err != nil {
				return imap.SearchData{}, err
			}
			mv, err := s.readNumber64()
			if err != nil {
				return imap.SearchData{}, err
			}
			if err := s.expectByte(')'); err != nil {
				return imap.SearchData{}, err
			}
			sd.ModSeq = mv
			sd.HasModSeq = true
			break
		}
		n, err := s.readNumber()
		if err != nil {
			return imap.SearchData{}, err
		}
		sd.Nums = append(sd.Nums, n)
	}
	return sd, nil
}
