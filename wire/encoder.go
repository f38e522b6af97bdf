package wire

import (
	"encoding/base64"
	"strconv"

	"github.com/coalooball/imap-codec/imap"
)

// FragmentKind distinguishes a fragment the caller may flush immediately
// from one that ends mid-message at a synchronizing literal header.
type FragmentKind int

const (
	// Final is a fragment with nothing blocking the bytes after it: the
	// caller may write it and keep going (or, for the last fragment of a
	// message, consider the message fully sent).
	Final FragmentKind = iota
	// LiteralGate is a fragment ending in "{N}\r\n" for a synchronizing
	// literal. The caller must flush exactly these bytes, then wait for
	// the peer's "+ ...\r\n" continuation (clients) or simply continue
	// (servers), before requesting the next fragment.
	LiteralGate
)

func (k FragmentKind) String() string {
	if k == LiteralGate {
		return "LiteralGate"
	}
	return "Final"
}

// Fragment is one ordered piece of an encoded value's wire bytes.
// Concatenating every Fragment's Bytes, in order, reproduces the full
// canonical wire form.
type Fragment struct {
	Bytes []byte
	Kind  FragmentKind
	// LiteralSize is the declared length of the literal that follows
	// this fragment. Meaningful only when Kind == LiteralGate.
	LiteralSize int64
}

// encoder accumulates wire bytes into Fragments, splitting at every
// synchronizing literal header. It never fails: every reachable typed
// value has a well-defined encoding, so there is nothing for it to
// reject.
type encoder struct {
	frags []Fragment
	cur   []byte
}

func (e *encoder) raw(b []byte) { e.cur = append(e.cur, b...) }
func (e *encoder) str(s string) { e.cur = append(e.cur, s...) }
func (e *encoder) byt(b byte)   { e.cur = append(e.cur, b) }
func (e *encoder) sp()          { e.byt(' ') }
func (e *encoder) crlf()        { e.str("\r\n") }

// fragments flushes any pending bytes as a final Final fragment and
// returns the complete, ordered fragment list.
func (e *encoder) fragments() []Fragment {
	if len(e.cur) > 0 || len(e.frags) == 0 {
		e.frags = append(e.frags, Fragment{Bytes: e.cur, Kind: Final})
		e.cur = nil
	}
	return e.frags
}

// quoted writes s as a quoted string, escaping '"' and '\\'.
func (e *encoder) quoted(s string) {
	e.byt('"')
	for i := 0; i < len(s); i++ {
		if isQuotedSpecial(s[i]) {
			e.byt('\\')
		}
		e.byt(s[i])
	}
	e.byt('"')
}

// isBinary reports whether data contains a byte outside 7-bit ASCII,
// the trigger for the "~{N}" extended-literal tag.
func isBinary(data []byte) bool {
	for _, b := range data {
		if b > 0x7f {
			return true
		}
	}
	return false
}

// literal writes a literal header and, for a non-synchronizing literal,
// its body inline. A synchronizing literal instead gates: everything
// accumulated so far plus the header becomes a LiteralGate fragment, and
// the body starts the next one.
func (e *encoder) literal(data []byte, nonSync bool) {
	if isBinary(data) {
		e.byt('~')
	}
	e.byt('{')
	e.str(strconv.Itoa(len(data)))
	if nonSync {
		e.byt('+')
	}
	e.byt('}')
	e.crlf()
	if nonSync {
		e.raw(data)
		return
	}
	e.frags = append(e.frags, Fragment{Bytes: e.cur, Kind: LiteralGate, LiteralSize: int64(len(data))})
	e.cur = nil
	e.raw(data)
}

// astring writes s in the narrowest form an ASTRING production accepts:
// a bare atom, else a quoted string, else a literal.
func (e *encoder) astring(s string) {
	switch {
	case !needsQuoting(s):
		e.str(s)
	case !needsLiteral(s):
		e.quoted(s)
	default:
		e.literal([]byte(s), false)
	}
}

// stringVal writes s in the narrowest form a STRING production accepts:
// quoted or literal, but never a bare atom (STRING, unlike ASTRING, has
// no atom alternative — RFC 3501's envelope/body-structure fields use
// this, not astring).
func (e *encoder) stringVal(s string) {
	if needsLiteral(s) {
		e.literal([]byte(s), false)
		return
	}
	e.quoted(s)
}

// nstringVal writes NIL when absent, else s via stringVal.
func (e *encoder) nstringVal(s string, present bool) {
	if !present {
		e.str("NIL")
		return
	}
	e.stringVal(s)
}

// nstringOpt writes s via nstringVal, treating "" as absent. This codec's
// data model carries NSTRING fields as plain strings with no separate
// presence flag (the envelope and body-structure parsers drop
// readNString's present result on decode), so "" and NIL are
// indistinguishable by construction and always round-trip to the same
// value either way.
func (e *encoder) nstringOpt(s string) {
	e.nstringVal(s, s != "")
}

// needsQuoting reports whether s cannot be written as a bare atom: empty,
// or containing any non-ATOM-CHAR byte.
func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	for i := 0; i < len(s); i++ {
		if !isAtomChar(s[i]) {
			return true
		}
	}
	return false
}

// needsLiteral reports whether s cannot be written as a quoted string:
// it contains CR, LF, NUL, or a byte outside 7-bit ASCII.
func needsLiteral(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b == '\r' || b == '\n' || b == 0 || b > 0x7f {
			return true
		}
	}
	return false
}

// mailbox writes a Mailbox: the bare atom "INBOX" for the canonical
// inbox, else its name as an astring.
func (e *encoder) mailbox(m imap.Mailbox) {
	if m.Inbox {
		e.str("INBOX")
		return
	}
	e.astring(m.Name)
}

// listMailbox writes a LIST/LSUB pattern: list-mailbox characters bare
// when possible (permits the wildcards '%' and '*' that astring
// forbids), else falls back to astring's quoted/literal forms.
func (e *encoder) listMailbox(s string) {
	if s != "" && isAllListMailboxChars(s) {
		e.str(s)
		return
	}
	e.astring(s)
}

func isAllListMailboxChars(s string) bool {
	switch s[0] {
	case '"', '{', '~':
		return false
	}
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b == ' ' || b == '(' || b == ')' || b == '{' || b < 0x20 || b >= 0x7f {
			return false
		}
	}
	return true
}

func (e *encoder) number(n uint32) {
	e.str(strconv.FormatUint(uint64(n), 10))
}

func (e *encoder) number64(n uint64) {
	e.str(strconv.FormatUint(n, 10))
}

func (e *encoder) flagList(flags []imap.Flag) {
	e.byt('(')
	for i, f := range flags {
		if i > 0 {
			e.sp()
		}
		e.str(string(f))
	}
	e.byt(')')
}

func (e *encoder) mailboxAttrList(attrs []imap.MailboxAttr) {
	e.byt('(')
	for i, a := range attrs {
		if i > 0 {
			e.sp()
		}
		e.str(string(a))
	}
	e.byt(')')
}

// respCode writes a bracketed response code, [name [args...]].
func (e *encoder) respCode(c *imap.RespCode) {
	e.byt('[')
	e.str(string(c.Name))
	switch c.Name {
	case imap.RespCodeAlert, imap.RespCodeParse, imap.RespCodeReadOnly, imap.RespCodeReadWrite, imap.RespCodeTryCreate:
		// no argument
	case imap.RespCodeBadCharset:
		if sets, ok := c.Arg.([]string); ok && len(sets) > 0 {
			e.sp()
			e.byt('(')
			for i, set := range sets {
				if i > 0 {
					e.sp()
				}
				e.astring(set)
			}
			e.byt(')')
		}
	case imap.RespCodeCapability:
		caps, _ := c.Arg.(imap.CapList)
		for _, cp := range caps {
			e.sp()
			e.str(string(cp))
		}
	case imap.RespCodePermanentFlags:
		flags, _ := c.Arg.([]imap.Flag)
		e.sp()
		e.flagList(flags)
	case imap.RespCodeUIDNext, imap.RespCodeUIDValidity, imap.RespCodeUnseen:
		n, _ := c.Arg.(uint32)
		e.sp()
		e.number(n)
	case imap.RespCodeHighestModSeq:
		n, _ := c.Arg.(uint64)
		e.sp()
		e.number64(n)
	case imap.RespCodeAppendUID:
		au, _ := c.Arg.(imap.AppendUID)
		e.sp()
		e.number(au.UIDValidity)
		e.sp()
		e.str(au.UIDs.String())
	case imap.RespCodeCopyUID:
		cu, _ := c.Arg.(imap.CopyUID)
		e.sp()
		e.number(cu.UIDValidity)
		e.sp()
		e.str(cu.Source.String())
		e.sp()
		e.str(cu.Dest.String())
	case imap.RespCodeReferral:
		url, _ := c.Arg.(string)
		e.sp()
		e.str(url)
	default:
		if uc, ok := c.Arg.(imap.UnknownCode); ok && uc.Text != "" {
			e.sp()
			e.str(uc.Text)
		}
	}
	e.byt(']')
}

// respText writes the shared "[resp-code] text" tail of a status line,
// greeting, or continuation request.
func (e *encoder) respText(code *imap.RespCode, text string) {
	if code != nil {
		e.sp()
		e.respCode(code)
	}
	if text != "" {
		e.sp()
		e.str(text)
	}
}

// EncodeGreeting encodes the server's initial unsolicited greeting.
func EncodeGreeting(g imap.Greeting) []Fragment {
	e := &encoder{}
	e.str("* ")
	e.str(string(g.Kind))
	e.respText(g.Code, g.Text)
	e.crlf()
	return e.fragments()
}

// EncodeAuthenticateData encodes one line of the client side of a SASL
// exchange: the cancellation marker "*", or a base64-encoded blob.
func EncodeAuthenticateData(a imap.AuthenticateData) []Fragment {
	e := &encoder{}
	if a.Cancel {
		e.byt('*')
	} else {
		e.str(base64.StdEncoding.EncodeToString(a.Data))
	}
	e.crlf()
	return e.fragments()
}
