package wire

import "github.com/coalooball/imap-codec/imap"

// EncodeCommand encodes one tagged client command line.
func EncodeCommand(c imap.Command) []Fragment {
	e := &encoder{}
	e.str(string(c.Tag))
	e.sp()
	encodeCommandBody(e, c.Body)
	e.crlf()
	return e.fragments()
}

func encodeCommandBody(e *encoder, body imap.CommandBody) {
	switch c := body.(type) {
	case imap.Capability:
		e.str("CAPABILITY")
	case imap.Noop:
		e.str("NOOP")
	case imap.Logout:
		e.str("LOGOUT")
	case imap.StartTLS:
		e.str("STARTTLS")
	case imap.Check:
		e.str("CHECK")
	case imap.Close:
		e.str("CLOSE")
	case imap.Unselect:
		e.str("UNSELECT")
	case imap.Expunge:
		e.str("EXPUNGE")
	case imap.Idle:
		e.str("IDLE")
	case imap.Namespace:
		e.str("NAMESPACE")
	case imap.Authenticate:
		e.str("AUTHENTICATE")
		e.sp()
		e.str(c.Mechanism)
		if c.HasInitial {
			e.sp()
			e.stringVal(string(c.InitialResponse))
		}
	case imap.Login:
		e.str("LOGIN")
		e.sp()
		e.astring(c.Username)
		e.sp()
		e.astring(c.Password)
	case imap.Enable:
		e.str("ENABLE")
		for _, cap := range c.Caps {
			e.sp()
			e.str(string(cap))
		}
	case imap.Select:
		e.str("SELECT")
		e.sp()
		e.mailbox(c.Mailbox)
		if c.CondStore {
			e.str(" (CONDSTORE)")
		}
	case imap.Examine:
		e.str("EXAMINE")
		e.sp()
		e.mailbox(c.Mailbox)
		if c.CondStore {
			e.str(" (CONDSTORE)")
		}
	case imap.Create:
		e.str("CREATE")
		e.sp()
		e.mailbox(c.Mailbox)
		if c.SpecialUse != "" {
			e.str(" (USE (")
			e.str(string(c.SpecialUse))
			e.str("))")
		}
	case imap.Delete:
		e.str("DELETE")
		e.sp()
		e.mailbox(c.Mailbox)
	case imap.Rename:
		e.str("RENAME")
		e.sp()
		e.mailbox(c.From)
		e.sp()
		e.mailbox(c.To)
	case imap.Subscribe:
		e.str("SUBSCRIBE")
		e.sp()
		e.mailbox(c.Mailbox)
	case imap.Unsubscribe:
		e.str("UNSUBSCRIBE")
		e.sp()
		e.mailbox(c.Mailbox)
	case imap.List:
		e.str("LIST")
		e.sp()
		e.mailbox(c.Reference)
		e.sp()
		e.listMailbox(c.Pattern)
	case imap.Lsub:
		e.str("LSUB")
		e.sp()
		e.mailbox(c.Reference)
		e.sp()
		e.listMailbox(c.Pattern)
	case imap.Status:
		e.str("STATUS")
		e.sp()
		e.mailbox(c.Mailbox)
		e.sp()
		e.byt('(')
		for i, it := range c.Items {
			if i > 0 {
				e.sp()
			}
			e.str(string(it))
		}
		e.byt(')')
	case imap.Append:
		e.str("APPEND")
		e.sp()
		e.mailbox(c.Mailbox)
		if len(c.Flags) > 0 {
			e.sp()
			e.flagList(c.Flags)
		}
		if c.HasDate {
			e.sp()
			e.quoted(c.Date)
		}
		e.sp()
		e.literal(c.Message, false)
	case imap.Search:
		encodeSearchCmd(e, c)
	case imap.Fetch:
		encodeFetchCmd(e, c)
	case imap.Store:
		encodeStoreCmd(e, c)
	case imap.Copy:
		e.str("COPY")
		e.sp()
		e.str(c.Set.String())
		e.sp()
		e.mailbox(c.Mailbox)
	case imap.Move:
		e.str("MOVE")
		e.sp()
		e.str(c.Set.String())
		e.sp()
		e.mailbox(c.Mailbox)
	case imap.UID:
		e.str("UID")
		e.sp()
		encodeCommandBody(e, c.Sub)
	}
}

func encodeSearchCmd(e *encoder, c imap.Search) {
	e.str("SEARCH")
	if c.Charset != "" {
		e.sp()
		e.str("CHARSET")
		e.sp()
		e.astring(c.Charset)
	}
	for _, k := range c.Keys {
		e.sp()
		encodeSearchKey(e, k)
	}
}

func encodeSearchKey(e *encoder, k imap.SearchKey) {
	switch k.Kind {
	case "SEQSET":
		e.str(k.Seq.String())
	case "AND":
		e.byt('(')
		for i, sub := range k.Sub {
			if i > 0 {
				e.sp()
			}
			encodeSearchKey(e, sub)
		}
		e.byt(')')
	case "ALL", "ANSWERED", "DELETED", "DRAFT", "FLAGGED", "NEW", "OLD", "RECENT",
		"SEEN", "UNANSWERED", "UNDELETED", "UNDRAFT", "UNFLAGGED", "UNSEEN":
		e.str(k.Kind)
	case "BCC", "BODY", "CC", "FROM", "SUBJECT", "TEXT", "TO", "KEYWORD", "UNKEYWORD":
		e.str(k.Kind)
		e.sp()
		e.astring(k.Str)
	case "HEADER":
		field, val := k.Str, ""
		if i := indexByte(k.Str, ' '); i >= 0 {
			field, val = k.Str[:i], k.Str[i+1:]
		}
		e.str("HEADER")
		e.sp()
		e.astring(field)
		e.sp()
		e.astring(val)
	case "BEFORE", "ON", "SENTBEFORE", "SENTON", "SENTSINCE", "SINCE":
		e.str(k.Kind)
		e.sp()
		e.astring(k.Date)
	case "LARGER", "SMALLER":
		e.str(k.Kind)
		e.sp()
		e.number(k.Num)
	case "UID":
		e.str("UID")
		e.sp()
		e.str(k.Seq.String())
	case "NOT":
		e.str("NOT")
		e.sp()
		encodeSearchKey(e, k.Sub[0])
	case "OR":
		e.str("OR")
		e.sp()
		encodeSearchKey(e, k.Sub[0])
		e.sp()
		encodeSearchKey(e, k.Sub[1])
	case "MODSEQ":
		e.str("MODSEQ")
		if k.Str != "" {
			e.sp()
			e.astring(k.Str)
		}
		e.sp()
		e.number64(k.ModSeq)
	}
}

// indexByte is a tiny local helper so this file doesn't need to import
// "strings" for a single byte search.
func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func encodeFetchCmd(e *encoder, c imap.Fetch) {
	e.str("FETCH")
	e.sp()
	e.str(c.Set.String())
	e.sp()
	encodeFetchAttrList(e, c.Attrs)
	if c.HasChangedSince {
		e.str(" (CHANGEDSINCE ")
		e.number64(c.ChangedSince)
		e.byt(')')
	}
}

func encodeFetchAttrList(e *encoder, attrs []imap.FetchAttr) {
	if len(attrs) == 1 {
		encodeFetchAttr(e, attrs[0])
		return
	}
	e.byt('(')
	for i, a := range attrs {
		if i > 0 {
			e.sp()
		}
		encodeFetchAttr(e, a)
	}
	e.byt(')')
}

func encodeFetchAttr(e *encoder, a imap.FetchAttr) {
	if a.Section != nil {
		if a.Section.Peek {
			e.str("BODY.PEEK")
		} else {
			e.str("BODY")
		}
		encodeSectionBracket(e, *a.Section)
		if a.Section.Partial != nil {
			e.byt('<')
			e.number(a.Section.Partial.Offset)
			if a.Section.Partial.HasCount {
				e.byt('.')
				e.number(a.Section.Partial.Count)
			}
			e.byt('>')
		}
		return
	}
	e.str(a.Kind)
}

// encodeSectionBracket writes the "[part.path.specifier(fields)]" suffix
// shared by a fetch request's BODY[...] attribute and a fetch response's
// BODY[...] data item. It never writes the optional "<offset[.count]>"
// partial suffix, since request and response disagree on its shape
// (count only ever appears in a request) and so encode it themselves.
func encodeSectionBracket(e *encoder, sec imap.BodySection) {
	e.byt('[')
	for i, p := range sec.Part {
		if i > 0 {
			e.byt('.')
		}
		e.number(uint32(p))
	}
	if sec.Specifier != imap.SectionNone {
		if len(sec.Part) > 0 {
			e.byt('.')
		}
		e.str(string(sec.Specifier))
		if sec.Specifier == imap.SectionHeaderFlds || sec.Specifier == imap.SectionHeaderNot {
			e.sp()
			e.byt('(')
			for i, f := range sec.Fields {
				if i > 0 {
					e.sp()
				}
				e.astring(f)
			}
			e.byt(')')
		}
	}
	e.byt(']')
}

func encodeStoreCmd(e *encoder, c imap.Store) {
	e.str("STORE")
	e.sp()
	e.str(c.Set.String())
	if c.HasUnchangedSince {
		e.str(" (UNCHANGEDSINCE ")
		e.number64(c.UnchangedSince)
		e.byt(')')
	}
	e.sp()
	e.str(c.Flags.Op)
	if c.Flags.Silent {
		e.str(".SILENT")
	}
	e.sp()
	if len(c.Flags.Flags) == 1 {
		e.str(string(c.Flags.Flags[0]))
		return
	}
	e.flagList(c.Flags.Flags)
}
