package wire

import (
	"encoding/base64"
	"strings"

	"github.com/coalooball/imap-codec/imap"
)

// readTextLine consumes human-readable text up to (not including) the
// line terminator.
func (s *scanner) readTextLine() (string, error) {
	i := 0
	for {
		b, ok := s.byteAt(i)
		if !ok {
			return "", incomplete()
		}
		if b == '\r' || (b == '\n' && s.opts.QuirkCRLFRelaxed) {
			break
		}
		i++
	}
	tok := string(s.buf[s.pos : s.pos+i])
	s.advance(i)
	return tok, nil
}

// readRespCodeText consumes TEXT-CHAR bytes up to the closing ']' of a
// response code.
func readRespCodeText(s *scanner) (string, error) {
	i := 0
	for {
		b, ok := s.byteAt(i)
		if !ok {
			return "", incomplete()
		}
		if b == ']' || b == '\r' || b == '\n' {
			break
		}
		i++
	}
	tok := string(s.buf[s.pos : s.pos+i])
	s.advance(i)
	return tok, nil
}

// parseCapabilityAtoms reads a SP-separated run of capability atoms,
// stopping at the first byte that is not SP (used both for the bare
// CAPABILITY response and the CAPABILITY response code).
func parseCapabilityAtoms(s *scanner) (imap.CapList, error) {
	var caps imap.CapList
	for {
		tok, err := s.readAtom()
		if err != nil {
			return nil, err
		}
		caps = append(caps, imap.Cap(tok))
		b, ok := s.peek()
		if !ok {
			return nil, incomplete()
		}
		if b != ' ' {
			return caps, nil
		}
		s.advance(1)
	}
}

// readRespCode parses a bracketed response code, including its brackets.
func readRespCode(s *scanner) (imap.RespCode, error) {
	if err := s.expectByte('['); err != nil {
		return imap.RespCode{}, err
	}
	name, err := s.readAtom()
	if err != nil {
		return imap.RespCode{}, err
	}
	upper := strings.ToUpper(name)
	var code imap.RespCode
	switch imap.RespCodeName(upper) {
	case imap.RespCodeAlert, imap.RespCodeParse, imap.RespCodeReadOnly, imap.RespCodeReadWrite, imap.RespCodeTryCreate:
		code = imap.RespCode{Name: imap.RespCodeName(upper)}
	case imap.RespCodeBadCharset:
		code.Name = imap.RespCodeBadCharset
		if b, ok := s.peek(); ok && b == ' ' {
			if err := s.expectSP(); err != nil {
				return imap.RespCode{}, err
			}
			var sets []string
			perr := s.readParenList(func() error {
				v, err := s.readAString()
				if err != nil {
					return err
				}
				sets = append(sets, v)
				return nil
			})
			if perr != nil {
				return imap.RespCode{}, perr
			}
			code.Arg = sets
		}
	case imap.RespCodeCapability:
		if err := s.expectSP(); err != nil {
			return imap.RespCode{}, err
		}
		caps, err := parseCapabilityAtoms(s)
		if err != nil {
			return imap.RespCode{}, err
		}
		code.Name = imap.RespCodeCapability
		code.Arg = caps
	case imap.RespCodePermanentFlags:
		if err := s.expectSP(); err != nil {
			return imap.RespCode{}, err
		}
		flags, err := parseFlagList(s)
		if err != nil {
			return imap.RespCode{}, err
		}
		code.Name = imap.RespCodePermanentFlags
		code.Arg = flags
	case imap.RespCodeUIDNext, imap.RespCodeUIDValidity, imap.RespCodeUnseen:
		if err := s.expectSP(); err != nil {
			return imap.RespCode{}, err
		}
		n, err := s.readNumber()
		if err != nil {
			return imap.RespCode{}, err
		}
		code.Name = imap.RespCodeName(upper)
		code.Arg = n
	case imap.RespCodeHighestModSeq:
		if err := s.expectSP(); err != nil {
			return imap.RespCode{}, err
		}
		n, err := s.readNumber64()
		if err != nil {
			return imap.RespCode{}, err
		}
		code.Name = imap.RespCodeHighestModSeq
		code.Arg = n
	case imap.RespCodeAppendUID:
		if err := s.expectSP(); err != nil {
			return imap.RespCode{}, err
		}
		uidvalidity, err := s.readNumber()
		if err != nil {
			return imap.RespCode{}, err
		}
		if err := s.expectSP(); err != nil {
			return imap.RespCode{}, err
		}
		uids, err := s.readSequenceSet()
		if err != nil {
			return imap.RespCode{}, err
		}
		code.Name = imap.RespCodeAppendUID
		code.Arg = imap.AppendUID{UIDValidity: uidvalidity, UIDs: uids}
	case imap.RespCodeCopyUID:
		if err := s.expectSP(); err != nil {
			return imap.RespCode{}, err
		}
		uidvalidity, err := s.readNumber()
		if err != nil {
			return imap.RespCode{}, err
		}
		if err := s.expectSP(); err != nil {
			return imap.RespCode{}, err
		}
		src, err := s.readSequenceSet()
		if err != nil {
			return imap.RespCode{}, err
		}
		if err := s.expectSP(); err != nil {
			return imap.RespCode{}, err
		}
		dst, err := s.readSequenceSet()
		if err != nil {
			return imap.RespCode{}, err
		}
		code.Name = imap.RespCodeCopyUID
		code.Arg = imap.CopyUID{UIDValidity: uidvalidity, Source: src, Dest: dst}
	case imap.RespCodeReferral:
		if err := s.expectSP(); err != nil {
			return imap.RespCode{}, err
		}
		url, err := readRespCodeText(s)
		if err != nil {
			return imap.RespCode{}, err
		}
		code.Name = imap.RespCodeReferral
		code.Arg = url
	default:
		var text string
		if b, ok := s.peek(); ok && b == ' ' {
			if err := s.expectSP(); err != nil {
				return imap.RespCode{}, err
			}
			t, err := readRespCodeText(s)
			if err != nil {
				return imap.RespCode{}, err
			}
			text = t
		}
		code.Name = imap.RespCodeName(name)
		code.Arg = imap.UnknownCode{Name: name, Text: text}
	}
	if err := s.expectByte(']'); err != nil {
		return imap.RespCode{}, err
	}
	return code, nil
}

// parseRespCodeAndText parses "[resp-code SP] text", which both tagged
// and untagged status responses and continuation requests share.
// quirk_missing_text permits a line that ends right after "]" with no
// text at all, synthesizing "<missing text>".
func parseRespCodeAndText(s *scanner) (*imap.RespCode, string, error) {
	var code *imap.RespCode
	if b, ok := s.peek(); ok && b == '[' {
		c, err := readRespCode(s)
		if err != nil {
			return nil, "", err
		}
		code = &c
	}
	b, ok := s.peek()
	if !ok {
		return nil, "", incomplete()
	}
	if b == '\r' || (b == '\n' && s.opts.QuirkCRLFRelaxed) {
		if code != nil && s.opts.QuirkMissingText {
			return code, "<missing text>", nil
		}
		return nil, "", newErr(s.pos, GrammarViolation, "response text is required")
	}
	if code != nil {
		if err := s.expectSP(); err != nil {
			return nil, "", err
		}
	}
	text, err := s.readTextLine()
	if err != nil {
		return nil, "", err
	}
	return code, text, nil
}

// validateStatusKind reports whether tok (case-insensitively) names one
// of the allowed status kinds.
func validateStatusKind(tok string, allowed ...imap.StatusKind) (imap.StatusKind, bool) {
	k := imap.StatusKind(strings.ToUpper(tok))
	for _, a := range allowed {
		if k == a {
			return k, true
		}
	}
	return "", false
}

// parseGreeting parses the server's initial unsolicited greeting.
func parseGreeting(s *scanner) (imap.Greeting, error) {
	if err := s.expectByte('*'); err != nil {
		return imap.Greeting{}, err
	}
	if err := s.expectSP(); err != nil {
		return imap.Greeting{}, err
	}
	tok, err := s.readAtom()
	if err != nil {
		return imap.Greeting{}, err
	}
	kind, ok := validateStatusKind(tok, imap.StatusOK, imap.StatusPREAUTH, imap.StatusBYE)
	if !ok {
		return imap.Greeting{}, newErr(s.pos, GrammarViolation, "invalid greeting kind %q", tok)
	}
	if err := s.expectSP(); err != nil {
		return imap.Greeting{}, err
	}
	code, text, err := parseRespCodeAndText(s)
	if err != nil {
		return imap.Greeting{}, err
	}
	if err := s.expectCRLF(); err != nil {
		return imap.Greeting{}, err
	}
	return imap.Greeting{Kind: kind, Code: code, Text: text}, nil
}

// parseAuthenticateData parses one line of the client side of a SASL
// exchange: the cancellation marker "*", or a base64-encoded blob.
func parseAuthenticateData(s *scanner) (imap.AuthenticateData, error) {
	if b, ok := s.peek(); ok && b == '*' {
		s.advance(1)
		if err := s.expectCRLF(); err != nil {
			return imap.AuthenticateData{}, err
		}
		return imap.AuthenticateData{Cancel: true}, nil
	}
	tok, err := s.readTextLine()
	if err != nil {
		return imap.AuthenticateData{}, err
	}
	data, derr := base64.StdEncoding.DecodeString(tok)
	if derr != nil {
		return imap.AuthenticateData{}, newErr(s.pos, InvalidTerminal, "invalid base64 %q: %v", tok, derr)
	}
	if err := s.expectCRLF(); err != nil {
		return imap.AuthenticateData{}, err
	}
	return imap.AuthenticateData{Data: data}, nil
}
