package wire

import (
	"strings"
	"time"

	"github.com/coalooball/imap-codec/imap"
)

// parseFlagList reads a parenthesized, possibly empty list of flags.
func parseFlagList(s *scanner) ([]imap.Flag, error) {
	var flags []imap.Flag
	err := s.readParenList(func() error {
		f, err := s.readFlag()
		if err != nil {
			return err
		}
		flags = append(flags, imap.Flag(f))
		return nil
	})
	return flags, err
}

// parseAddressList parses an address list: NIL, or a parenthesized list
// of one or more addresses.
func parseAddressList(s *scanner) ([]imap.Address, error) {
	b, ok := s.peek()
	if !ok {
		return nil, incomplete()
	}
	if b != '(' {
		start := s.pos
		tok, err := s.readAtom()
		if err != nil {
			return nil, err
		}
		if !strings.EqualFold(tok, "NIL") {
			return nil, newErr(start, GrammarViolation, "expected address list or NIL, got %q", tok)
		}
		return nil, nil
	}
	var addrs []imap.Address
	err := s.readParenList(func() error {
		a, err := parseAddress(s)
		if err != nil {
			return err
		}
		addrs = append(addrs, a)
		return nil
	})
	return addrs, err
}

func parseAddress(s *scanner) (imap.Address, error) {
	if err := s.expectByte('('); err != nil {
		return imap.Address{}, err
	}
	name, _, err := s.readNString()
	if err != nil {
		return imap.Address{}, err
	}
	if err := s.expectSP(); err != nil {
		return imap.Address{}, err
	}
	adl, _, err := s.readNString()
	if err != nil {
		return imap.Address{}, err
	}
	if err := s.expectSP(); err != nil {
		return imap.Address{}, err
	}
	mbox, _, err := s.readNString()
	if err != nil {
		return imap.Address{}, err
	}
	if err := s.expectSP(); err != nil {
		return imap.Address{}, err
	}
	host, _, err := s.readNString()
	if err != nil {
		return imap.Address{}, err
	}
	if err := s.expectByte(')'); err != nil {
		return imap.Address{}, err
	}
	return imap.Address{Name: name, ADL: adl, Mailbox: mbox, Host: host}, nil
}

// envelopeDateLayout is the RFC 2822 date-time format env-date carries.
// An envelope date that doesn't parse against this layout is kept as a
// zero time.Time with HasDate true but no error.
const envelopeDateLayout = "Mon, 2 Jan 2006 15:04:05 -0700"

// parseEnvelope parses the ENVELOPE fetch attribute's 10-element list,
// or NIL.
func parseEnvelope(s *scanner) (*imap.Envelope, error) {
	b, ok := s.peek()
	if !ok {
		return nil, incomplete()
	}
	if b != '(' {
		start := s.pos
		tok, err := s.readAtom()
		if err != nil {
			return nil, err
		}
		if !strings.EqualFold(tok, "NIL") {
			return nil, newErr(start, GrammarViolation, "expected envelope or NIL, got %q", tok)
		}
		return nil, nil
	}
	if err := s.expectByte('('); err != nil {
		return nil, err
	}
	dateStr, datePresent, err := s.readNString()
	if err != nil {
		return nil, err
	}
	if err := s.expectSP(); err != nil {
		return nil, err
	}
	subject, _, err := s.readNString()
	if err != nil {
		return nil, err
	}
	if err := s.expectSP(); err != nil {
		return nil, err
	}
	from, err := parseAddressList(s)
	if err != nil {
		return nil, err
	}
	if err := s.expectSP(); err != nil {
		return nil, err
	}
	sender, err := parseAddressList(s)
	if err != nil {
		return nil, err
	}
	if err := s.expectSP(); err != nil {
		return nil, err
	}
	replyTo, err := parseAddressList(s)
	if err != nil {
		return nil, err
	}
	if err := s.expectSP(); err != nil {
		return nil, err
	}
	to, err := parseAddressList(s)
	if err != nil {
		return nil, err
	}
	if err := s.expectSP(); err != nil {
		return nil, err
	}
	cc, err := parseAddressList(s)
	if err != nil {
		return nil, err
	}
	if err := s.expectSP(); err != nil {
		return nil, err
	}
	bcc, err := parseAddressList(s)
	if err != nil {
		return nil, err
	}
	if err := s.expectSP(); err != nil {
		return nil, err
	}
	inReplyTo, _, err := s.readNString()
	if err != nil {
		return nil, err
	}
	if err := s.expectSP(); err != nil {
		return nil, err
	}
	msgID, _, err := s.readNString()
	if err != nil {
		return nil, err
	}
	if err := s.expectByte(')'); err != nil {
		return nil, err
	}
	env := &imap.Envelope{
		Subject: subject, From: from, Sender: sender, ReplyTo: replyTo,
		To: to, Cc: cc, Bcc: bcc, InReplyTo: inReplyTo, MessageID: msgID,
	}
	if datePresent {
		env.HasDate = true
		if t, perr := time.Parse(envelopeDateLayout, dateStr); perr == nil {
			env.Date = t
		}
	}
	return env, nil
}

// parseBodyFldParam parses a body-fld-param: NIL, or a parenthesized
// flat list of alternating name/value strings.
func parseBodyFldParam(s *scanner) (map[string]string, error) {
	b, ok := s.peek()
	if !ok {
		return nil, incomplete()
	}
	if b != '(' {
		start := s.pos
		tok, err := s.readAtom()
		if err != nil {
			return nil, err
		}
		if !strings.EqualFold(tok, "NIL") {
			return nil, newErr(start, GrammarViolation, "expected parameter list or NIL, got %q", tok)
		}
		return nil, nil
	}
	params := map[string]string{}
	var pendingKey string
	haveKey := false
	err := s.readParenList(func() error {
		v, err := s.readString()
		if err != nil {
			return err
		}
		if !haveKey {
			pendingKey = v
			haveKey = true
			return nil
		}
		params[strings.ToUpper(pendingKey)] = v
		haveKey = false
		return nil
	})
	if err != nil {
		return nil, err
	}
	return params, nil
}

func parseBodyFldDsp(s *scanner) (string, map[string]string, error) {
	b, ok := s.peek()
	if !ok {
		return "", nil, incomplete()
	}
	if b != '(' {
		start := s.pos
		tok, err := s.readAtom()
		if err != nil {
			return "", nil, err
		}
		if !strings.EqualFold(tok, "NIL") {
			return "", nil, newErr(start, GrammarViolation, "expected disposition or NIL, got %q", tok)
		}
		return "", nil, nil
	}
	if err := s.expectByte('('); err != nil {
		return "", nil, err
	}
	dtype, err := s.readString()
	if err != nil {
		return "", nil, err
	}
	if err := s.expectSP(); err != nil {
		return "", nil, err
	}
	params, err := parseBodyFldParam(s)
	if err != nil {
		return "", nil, err
	}
	if err := s.expectByte(')'); err != nil {
		return "", nil, err
	}
	return dtype, params, nil
}

func parseBodyFldLang(s *scanner) ([]string, error) {
	b, ok := s.peek()
	if !ok {
		return nil, incomplete()
	}
	if b == '(' {
		var langs []string
		err := s.readParenList(func() error {
			v, err := s.readString()
			if err != nil {
				return err
			}
			langs = append(langs, v)
			return nil
		})
		return langs, err
	}
	v, present, err := s.readNString()
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	return []string{v}, nil
}

// skipBodyExtension discards one body-extension value: a number, an
// nstring, or a parenthesized list of further body-extensions. Used for
// trailing extension fields this codec doesn't model individually.
func skipBodyExtension(s *scanner) error {
	b, ok := s.peek()
	if !ok {
		return incomplete()
	}
	if b == '(' {
		return s.readParenList(func() error {
			return skipBodyExtension(s)
		})
	}
	if b >= '0' && b <= '9' {
		_, err := s.readNumber64()
		return err
	}
	_, _, err := s.readNString()
	return err
}

// parseBodyExtTail parses the optional, strictly-ordered tail shared by
// body-ext-1part and body-ext-mpart once their leading field (md5, or
// nothing, respectively) has been consumed: disposition, language,
// location, and any further unmodeled extensions.
func parseBodyExtTail(s *scanner, bs *imap.BodyStructure) error {
	b, ok := s.peek()
	if !ok {
		return incomplete()
	}
	if b != ' ' {
		return nil
	}
	if err := s.expectSP(); err != nil {
		return err
	}
	dsp, dispParams, err := parseBodyFldDsp(s)
	if err != nil {
		return err
	}
	bs.Disposition = dsp
	bs.DispositionParams = dispParams

	b, ok = s.peek()
	if !ok {
		return incomplete()
	}
	if b != ' ' {
		return nil
	}
	if err := s.expectSP(); err != nil {
		return err
	}
	langs, err := parseBodyFldLang(s)
	if err != nil {
		return err
	}
	bs.Language = langs

	b, ok = s.peek()
	if !ok {
		return incomplete()
	}
	if b != ' ' {
		return nil
	}
	if err := s.expectSP(); err != nil {
		return err
	}
	loc, _, err := s.readNString()
	if err != nil {
		return err
	}
	bs.Location = loc

	for {
		b, ok = s.peek()
		if !ok {
			return incomplete()
		}
		if b != ' ' {
			return nil
		}
		if err := s.expectSP(); err != nil {
			return err
		}
		if err := skipBodyExtension(s); err != nil {
			return err
		}
	}
}

// parseBodyStructure parses a BODY/BODYSTRUCTURE fetch attribute value,
// or NIL.
func parseBodyStructure(s *scanner) (*imap.BodyStructure, error) {
	b, ok := s.peek()
	if !ok {
		return nil, incomplete()
	}
	if b != '(' {
		start := s.pos
		tok, err := s.readAtom()
		if err != nil {
			return nil, err
		}
		if !strings.EqualFold(tok, "NIL") {
			return nil, newErr(start, GrammarViolation, "expected body or NIL, got %q", tok)
		}
		return nil, nil
	}
	if err := s.expectByte('('); err != nil {
		return nil, err
	}
	nb, ok := s.peek()
	if !ok {
		return nil, incomplete()
	}
	var bs *imap.BodyStructure
	var berr error
	if nb == '(' {
		bs, berr = parseMultipartBody(s)
	} else {
		bs, berr = parseSinglePartBody(s)
	}
	if berr != nil {
		return nil, berr
	}
	if err := s.expectByte(')'); err != nil {
		return nil, err
	}
	return bs, nil
}

func parseMultipartBody(s *scanner) (*imap.BodyStructure, error) {
	var children []imap.BodyStructure
	for {
		child, err := parseBodyStructure(s)
		if err != nil {
			return nil, err
		}
		if child != nil {
			children = append(children, *child)
		}
		b, ok := s.peek()
		if !ok {
			return nil, incomplete()
		}
		if b != '(' {
			break
		}
	}
	if err := s.expectSP(); err != nil {
		return nil, err
	}
	subtype, err := s.readString()
	if err != nil {
		return nil, err
	}
	bs := &imap.BodyStructure{Type: "MULTIPART", Subtype: strings.ToUpper(subtype), Children: children}
	b, ok := s.peek()
	if !ok {
		return nil, incomplete()
	}
	if b != ' ' {
		return bs, nil
	}
	if err := s.expectSP(); err != nil {
		return nil, err
	}
	bs.Extended = true
	params, err := parseBodyFldParam(s)
	if err != nil {
		return nil, err
	}
	bs.Params = params
	if err := parseBodyExtTail(s, bs); err != nil {
		return nil, err
	}
	return bs, nil
}

func parseSinglePartBody(s *scanner) (*imap.BodyStructure, error) {
	typ, err := s.readString()
	if err != nil {
		return nil, err
	}
	if err := s.expectSP(); err != nil {
		return nil, err
	}
	subtype, err := s.readString()
	if err != nil {
		return nil, err
	}
	if err := s.expectSP(); err != nil {
		return nil, err
	}
	params, err := parseBodyFldParam(s)
	if err != nil {
		return nil, err
	}
	if err := s.expectSP(); err != nil {
		return nil, err
	}
	id, _, err := s.readNString()
	if err != nil {
		return nil, err
	}
	if err := s.expectSP(); err != nil {
		return nil, err
	}
	desc, _, err := s.readNString()
	if err != nil {
		return nil, err
	}
	if err := s.expectSP(); err != nil {
		return nil, err
	}
	enc, err := s.readString()
	if err != nil {
		return nil, err
	}
	if err := s.expectSP(); err != nil {
		return nil, err
	}
	size, err := s.readNumber()
	if err != nil {
		return nil, err
	}

	bs := &imap.BodyStructure{
		Type: strings.ToUpper(typ), Subtype: strings.ToUpper(subtype),
		Params: params, ID: id, Description: desc, Encoding: enc, Size: size,
	}

	switch {
	case bs.Type == "MESSAGE" && strings.EqualFold(subtype, "RFC822"):
		if err := s.expectSP(); err != nil {
			return nil, err
		}
		env, err := parseEnvelope(s)
		if err != nil {
			return nil, err
		}
		if err := s.expectSP(); err != nil {
			return nil, err
		}
		child, err := parseBodyStructure(s)
		if err != nil {
			return nil, err
		}
		if err := s.expectSP(); err != nil {
			return nil, err
		}
		lines, err := s.readNumber()
		if err != nil {
			return nil, err
		}
		bs.Envelope = env
		bs.BodyStructure = child
		bs.Lines = lines
	case bs.Type == "TEXT":
		if err := s.expectSP(); err != nil {
			return nil, err
		}
		lines, err := s.readNumber()
		if err != nil {
			return nil, err
		}
		bs.Lines = lines
	}

	b, ok := s.peek()
	if !ok {
		return nil, incomplete()
	}
	if b != ' ' {
		return bs, nil
	}
	if err := s.expectSP(); err != nil {
		return nil, err
	}
	bs.Extended = true
	md5, _, err := s.readNString()
	if err != nil {
		return nil, err
	}
	bs.MD5 = md5
	if err := parseBodyExtTail(s, bs); err != nil {
		return nil, err
	}
	return bs, nil
}

// parseSectionSuffix parses "[section]" followed by an optional
// "<offset[.count]>" partial-fetch suffix. count is only ever present
// in a request's BODY[...]<offset.count> form; a fetch response's
// BODY[...]<offset> never carries one.
func parseSectionSuffix(s *scanner) (imap.BodySection, *imap.SectionPartial, error) {
	if err := s.expectByte('['); err != nil {
		return imap.BodySection{}, nil, err
	}
	var sec imap.BodySection
	for {
		b, ok := s.peek()
		if !ok {
			return imap.BodySection{}, nil, incomplete()
		}
		if b < '0' || b > '9' {
			break
		}
		n, err := s.readNumber()
		if err != nil {
			return imap.BodySection{}, nil, err
		}
		sec.Part = append(sec.Part, int(n))
		b, ok = s.peek()
		if !ok {
			return imap.BodySection{}, nil, incomplete()
		}
		if b != '.' {
			break
		}
		nb, ok2 := s.byteAt(1)
		if !ok2 {
			return imap.BodySection{}, nil, incomplete()
		}
		if nb < '0' || nb > '9' {
			s.advance(1)
			break
		}
		s.advance(1)
	}
	b, ok := s.peek()
	if !ok {
		return imap.BodySection{}, nil, incomplete()
	}
	if b != ']' {
		tok, err := s.readAtomStopAt(']')
		if err != nil {
			return imap.BodySection{}, nil, err
		}
		switch strings.ToUpper(tok) {
		case "HEADER":
			sec.Specifier = imap.SectionHeader
		case "TEXT":
			sec.Specifier = imap.SectionText
		case "MIME":
			sec.Specifier = imap.SectionMIME
		case "HEADER.FIELDS", "HEADER.FIELDS.NOT":
			if strings.EqualFold(tok, "HEADER.FIELDS") {
				sec.Specifier = imap.SectionHeaderFlds
			} else {
				sec.Specifier = imap.SectionHeaderNot
			}
			if err := s.expectSP(); err != nil {
				return imap.BodySection{}, nil, err
			}
			var fields []string
			perr := s.readParenList(func() error {
				f, err := s.readAString()
				if err != nil {
					return err
				}
				fields = append(fields, f)
				return nil
			})
			if perr != nil {
				return imap.BodySection{}, nil, perr
			}
			sec.Fields = fields
		default:
			return imap.BodySection{}, nil, newErr(s.pos, GrammarViolation, "unknown section specifier %q", tok)
		}
	}
	if err := s.expectByte(']'); err != nil {
		return imap.BodySection{}, nil, err
	}
	var partial *imap.SectionPartial
	if b, ok := s.peek(); ok && b == '<' {
		s.advance(1)
		offset, err := s.readNumber()
		if err != nil {
			return imap.BodySection{}, nil, err
		}
		p := &imap.SectionPartial{Offset: offset}
		if b, ok := s.peek(); ok && b == '.' {
			s.advance(1)
			count, err := s.readNumber()
			if err != nil {
				return imap.BodySection{}, nil, err
			}
			p.Count = count
			p.HasCount = true
		}
		if err := s.expectByte('>'); err != nil {
			return imap.BodySection{}, nil, err
		}
		partial = p
	}
	return sec, partial, nil
}

// parseFetchAttr parses one requested FETCH attribute, client side.
func parseFetchAttr(s *scanner) (imap.FetchAttr, error) {
	name, err := s.readAtomStopAt('[')
	if err != nil {
		return imap.FetchAttr{}, err
	}
	upper := strings.ToUpper(name)
	switch upper {
	case "BODY", "BODY.PEEK":
		peek := upper == "BODY.PEEK"
		if b, ok := s.peek(); ok && b == '[' {
			sec, partial, err := parseSectionSuffix(s)
			if err != nil {
				return imap.FetchAttr{}, err
			}
			sec.Peek = peek
			sec.Partial = partial
			return imap.FetchAttr{Kind: "BODY", Section: &sec}, nil
		}
		return imap.FetchAttr{Kind: upper}, nil
	default:
		return imap.FetchAttr{Kind: upper}, nil
	}
}

// parseFetchAttrList parses a FETCH command's attribute argument: a bare
// macro name (ALL/FAST/FULL) or a parenthesized list of fetch-att.
func parseFetchAttrList(s *scanner) ([]imap.FetchAttr, error) {
	b, ok := s.peek()
	if !ok {
		return nil, incomplete()
	}
	if b != '(' {
		attr, err := parseFetchAttr(s)
		if err != nil {
			return nil, err
		}
		return []imap.FetchAttr{attr}, nil
	}
	var attrs []imap.FetchAttr
	err := s.readParenList(func() error {
		a, err := parseFetchAttr(s)
		if err != nil {
			return err
		}
		attrs = append(attrs, a)
		return nil
	})
	return attrs, err
}

// parseFetchData parses one FETCH response's parenthesized data-item
// list for the message identified by seqNum.
func parseFetchData(s *scanner, seqNum uint32) (imap.FetchData, error) {
	if err := s.expectSP(); err != nil {
		return imap.FetchData{}, err
	}
	fd := imap.FetchData{SeqNum: int32(seqNum)}
	err := s.readParenList(func() error {
		return parseFetchDataItem(s, &fd)
	})
	if err != nil {
		return imap.FetchData{}, err
	}
	return fd, nil
}

func parseFetchDataItem(s *scanner, fd *imap.FetchData) error {
	start := s.pos
	name, err := s.readAtomStopAt('[')
	if err != nil {
		return err
	}
	upper := strings.ToUpper(name)
	if upper == "BODY" {
		if b, ok := s.peek(); ok && b == '[' {
			sec, partial, err := parseSectionSuffix(s)
			if err != nil {
				return err
			}
			if err := s.expectSP(); err != nil {
				return err
			}
			data, _, err := s.readNString()
			if err != nil {
				return err
			}
			sd := imap.FetchSectionData{Section: sec, Data: []byte(data)}
			if partial != nil {
				sd.Offset = partial.Offset
				sd.HasOffset = true
			}
			fd.Sections = append(fd.Sections, sd)
			return nil
		}
	}
	if err := s.expectSP(); err != nil {
		return err
	}
	switch upper {
	case "FLAGS":
		flags, err := parseFlagList(s)
		if err != nil {
			return err
		}
		fd.Flags = flags
		fd.HasFlags = true
	case "ENVELOPE":
		env, err := parseEnvelope(s)
		if err != nil {
			return err
		}
		fd.Envelope = env
	case "BODYSTRUCTURE":
		bs, err := parseBodyStructure(s)
		if err != nil {
			return err
		}
		fd.Body = bs
		fd.BodyStructure = true
	case "BODY":
		bs, err := parseBodyStructure(s)
		if err != nil {
			return err
		}
		fd.Body = bs
	case "INTERNALDATE":
		date, _, err := s.readNString()
		if err != nil {
			return err
		}
		fd.InternalDate = date
		fd.HasInternalDate = true
	case "RFC822.SIZE":
		n, err := s.readNumber()
		if err != nil {
			return err
		}
		fd.RFC822Size = n
		fd.HasRFC822Size = true
	case "UID":
		n, err := s.readNumber()
		if err != nil {
			return err
		}
		fd.UID = n
		fd.HasUID = true
	case "MODSEQ":
		if err := s.expectByte('('); err != nil {
			return err
		}
		n, err := s.readNumber64()
		if err != nil {
			return err
		}
		if err := s.expectByte(')'); err != nil {
			return err
		}
		fd.ModSeq = n
		fd.HasModSeq = true
	default:
		return newErr(start, GrammarViolation, "unknown FETCH data item %q", name)
	}
	return nil
}
