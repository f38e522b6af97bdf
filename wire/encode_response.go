package wire

import (
	"sort"

	"github.com/coalooball/imap-codec/imap"
)

// EncodeResponse encodes one server response line: a continuation
// request, a tagged or untagged status, or a piece of untagged data.
func EncodeResponse(r imap.Response) []Fragment {
	e := &encoder{}
	switch {
	case r.Continuation != nil:
		e.str("+")
		e.respText(r.Continuation.Code, r.Continuation.Text)
		e.crlf()
	case r.Status != nil:
		encodeStatus(e, *r.Status)
	default:
		encodeResponseData(e, r.Data)
	}
	return e.fragments()
}

func encodeStatus(e *encoder, st imap.Status) {
	if st.Tag == "" {
		e.str("*")
	} else {
		e.str(string(st.Tag))
	}
	e.sp()
	e.str(string(st.Kind))
	e.respText(st.Code, st.Text)
	e.crlf()
}

func encodeResponseData(e *encoder, data imap.ResponseData) {
	e.str("* ")
	switch d := data.(type) {
	case imap.Exists:
		e.number(d.Count)
		e.str(" EXISTS")
	case imap.Recent:
		e.number(d.Count)
		e.str(" RECENT")
	case imap.ExpungeData:
		e.number(d.SeqNum)
		e.str(" EXPUNGE")
	case imap.Vanished:
		e.str("VANISHED")
		if d.Earlier {
			e.str(" (EARLIER)")
		}
		e.sp()
		e.str(d.UIDs.String())
	case imap.FlagsData:
		e.str("FLAGS ")
		e.flagList(d.Flags)
	case imap.CapabilityData:
		e.str("CAPABILITY")
		for _, c := range d.Caps {
			e.sp()
			e.str(string(c))
		}
	case imap.ListData:
		if d.Lsub {
			e.str("LSUB ")
		} else {
			e.str("LIST ")
		}
		e.mailboxAttrList(d.Attrs)
		e.sp()
		if d.HasDelim {
			e.byt('"')
			e.byt(d.Delim)
			e.byt('"')
		} else {
			e.str("NIL")
		}
		e.sp()
		e.mailbox(d.Mailbox)
	case imap.StatusData:
		e.str("STATUS ")
		e.mailbox(d.Mailbox)
		e.sp()
		encodeStatusDataItems(e, d)
	case imap.SearchData:
		e.str("SEARCH")
		for _, n := range d.Nums {
			e.sp()
			e.number(n)
		}
		if d.HasModSeq {
			e.str(" (MODSEQ ")
			e.number64(d.ModSeq)
			e.byt(')')
		}
	case imap.FetchData:
		e.number(uint32(d.SeqNum))
		e.str(" FETCH ")
		encodeFetchDataItems(e, d)
	}
	e.crlf()
}

func encodeStatusDataItems(e *encoder, d imap.StatusData) {
	type item struct {
		name string
		n    *uint32
		n64  *uint64
	}
	items := []item{
		{name: string(imap.StatusItemMessages), n: d.Messages},
		{name: string(imap.StatusItemRecent), n: d.Recent},
		{name: string(imap.StatusItemUIDNext), n: d.UIDNext},
		{name: string(imap.StatusItemUIDValidity), n: d.UIDValidity},
		{name: string(imap.StatusItemUnseen), n: d.Unseen},
		{name: string(imap.StatusItemHighestModSeq), n64: d.HighestModSeq},
	}
	e.byt('(')
	first := true
	for _, it := range items {
		if it.n == nil && it.n64 == nil {
			continue
		}
		if !first {
			e.sp()
		}
		first = false
		e.str(it.name)
		e.sp()
		if it.n != nil {
			e.number(*it.n)
		} else {
			e.number64(*it.n64)
		}
	}
	e.byt(')')
}

func encodeFetchDataItems(e *encoder, d imap.FetchData) {
	var items []func()
	if d.HasFlags {
		items = append(items, func() { e.str("FLAGS "); e.flagList(d.Flags) })
	}
	if d.HasInternalDate {
		items = append(items, func() { e.str("INTERNALDATE "); e.quoted(d.InternalDate) })
	}
	if d.HasRFC822Size {
		items = append(items, func() { e.str("RFC822.SIZE "); e.number(d.RFC822Size) })
	}
	if d.Envelope != nil {
		items = append(items, func() { e.str("ENVELOPE "); encodeEnvelope(e, d.Envelope) })
	}
	if d.Body != nil {
		items = append(items, func() {
			if d.BodyStructure {
				e.str("BODYSTRUCTURE ")
			} else {
				e.str("BODY ")
			}
			encodeBodyStructure(e, d.Body)
		})
	}
	if d.HasUID {
		items = append(items, func() { e.str("UID "); e.number(d.UID) })
	}
	if d.HasModSeq {
		items = append(items, func() { e.str("MODSEQ ("); e.number64(d.ModSeq); e.byt(')') })
	}
	for _, sd := range d.Sections {
		sd := sd
		items = append(items, func() { encodeFetchSectionData(e, sd) })
	}
	e.byt('(')
	for i, fn := range items {
		if i > 0 {
			e.sp()
		}
		fn()
	}
	e.byt(')')
}

func encodeFetchSectionData(e *encoder, sd imap.FetchSectionData) {
	e.str("BODY")
	encodeSectionBracket(e, sd.Section)
	if sd.HasOffset {
		e.byt('<')
		e.number(sd.Offset)
		e.byt('>')
	}
	e.sp()
	if sd.Data == nil {
		e.str("NIL")
		return
	}
	e.stringVal(string(sd.Data))
}

// encodeEnvelope formats the date with envelopeDateLayout, the same
// constant grammar_fetch.go parses it with.
func encodeEnvelope(e *encoder, env *imap.Envelope) {
	if env == nil {
		e.str("NIL")
		return
	}
	e.byt('(')
	if env.HasDate {
		e.quoted(env.Date.Format(envelopeDateLayout))
	} else {
		e.str("NIL")
	}
	e.sp()
	e.nstringOpt(env.Subject)
	e.sp()
	encodeAddressList(e, env.From)
	e.sp()
	encodeAddressList(e, env.Sender)
	e.sp()
	encodeAddressList(e, env.ReplyTo)
	e.sp()
	encodeAddressList(e, env.To)
	e.sp()
	encodeAddressList(e, env.Cc)
	e.sp()
	encodeAddressList(e, env.Bcc)
	e.sp()
	e.nstringOpt(env.InReplyTo)
	e.sp()
	e.nstringOpt(env.MessageID)
	e.byt(')')
}

func encodeAddressList(e *encoder, addrs []imap.Address) {
	if addrs == nil {
		e.str("NIL")
		return
	}
	e.byt('(')
	for i, a := range addrs {
		if i > 0 {
			e.sp()
		}
		encodeAddress(e, a)
	}
	e.byt(')')
}

func encodeAddress(e *encoder, a imap.Address) {
	e.byt('(')
	e.nstringOpt(a.Name)
	e.sp()
	e.nstringOpt(a.ADL)
	e.sp()
	e.nstringOpt(a.Mailbox)
	e.sp()
	e.nstringOpt(a.Host)
	e.byt(')')
}

// encodeBodyStructure encodes a body structure. A MULTIPART bs.Type
// requires len(bs.Children) >= 1 — RFC 3501's body-type-mpart has no
// zero-part form, so a MULTIPART value with no children is outside the
// encoder's total domain and is the caller's error to avoid, not one
// this function can repair without emitting unparseable bytes.
func encodeBodyStructure(e *encoder, bs *imap.BodyStructure) {
	if bs == nil {
		e.str("NIL")
		return
	}
	e.byt('(')
	if bs.Type == "MULTIPART" {
		for i := range bs.Children {
			encodeBodyStructure(e, &bs.Children[i])
		}
		e.sp()
		e.stringVal(bs.Subtype)
		if bs.Extended {
			e.sp()
			encodeBodyFldParam(e, bs.Params)
			encodeBodyExtTail(e, bs)
		}
	} else {
		e.stringVal(bs.Type)
		e.sp()
		e.stringVal(bs.Subtype)
		e.sp()
		encodeBodyFldParam(e, bs.Params)
		e.sp()
		e.nstringOpt(bs.ID)
		e.sp()
		e.nstringOpt(bs.Description)
		e.sp()
		e.stringVal(bs.Encoding)
		e.sp()
		e.number(bs.Size)
		switch {
		case bs.Type == "MESSAGE" && bs.Subtype == "RFC822":
			e.sp()
			encodeEnvelope(e, bs.Envelope)
			e.sp()
			encodeBodyStructure(e, bs.BodyStructure)
			e.sp()
			e.number(bs.Lines)
		case bs.Type == "TEXT":
			e.sp()
			e.number(bs.Lines)
		}
		if bs.Extended {
			e.sp()
			e.nstringOpt(bs.MD5)
			encodeBodyExtTail(e, bs)
		}
	}
	e.byt(')')
}

func encodeBodyFldParam(e *encoder, params map[string]string) {
	if len(params) == 0 {
		e.str("NIL")
		return
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	e.byt('(')
	for i, k := range keys {
		if i > 0 {
			e.sp()
		}
		e.stringVal(k)
		e.sp()
		e.stringVal(params[k])
	}
	e.byt(')')
}

func encodeBodyFldDsp(e *encoder, dtype string, params map[string]string) {
	if dtype == "" && len(params) == 0 {
		e.str("NIL")
		return
	}
	e.byt('(')
	e.stringVal(dtype)
	e.sp()
	encodeBodyFldParam(e, params)
	e.byt(')')
}

func encodeBodyFldLang(e *encoder, langs []string) {
	switch len(langs) {
	case 0:
		e.str("NIL")
	case 1:
		e.stringVal(langs[0])
	default:
		e.byt('(')
		for i, l := range langs {
			if i > 0 {
				e.sp()
			}
			e.stringVal(l)
		}
		e.byt(')')
	}
}

// encodeBodyExtTail writes the optional disposition/language/location
// tail shared by body-ext-1part and body-ext-mpart. Since the grammar
// requires each field to precede the next, the tail is all-or-nothing:
// if any of the three was captured, all three are re-emitted (absent
// ones as NIL).
func encodeBodyExtTail(e *encoder, bs *imap.BodyStructure) {
	hasTail := bs.Disposition != "" || len(bs.DispositionParams) > 0 || len(bs.Language) > 0 || bs.Location != ""
	if !hasTail {
		return
	}
	e.sp()
	encodeBodyFldDsp(e, bs.Disposition, bs.DispositionParams)
	e.sp()
	encodeBodyFldLang(e, bs.Language)
	e.sp()
	e.nstringOpt(bs.Location)
}
