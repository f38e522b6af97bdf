package wire

import "fmt"

// ErrorKind classifies a decode failure.
type ErrorKind int

const (
	// GrammarViolation means the byte at Offset cannot continue any
	// valid production.
	GrammarViolation ErrorKind = iota
	// InvalidTerminal means a terminal's shape is wrong: an unbalanced
	// quoted string, a non-base64 byte where base64 was expected, a
	// number out of range, and similar.
	InvalidTerminal
	// LiteralTooLarge means a literal length exceeds Options.MaxLiteralSize.
	LiteralTooLarge
	// UnknownCommand means the leading command verb does not match any
	// known production at the current extension feature set.
	UnknownCommand
	// UnknownResponseCode means a bracketed response code's leading atom
	// does not match a known production. The default grammar treats an
	// unrecognized response code as decodable-but-unknown rather than a
	// hard failure (see imap.UnknownCode); this kind is reserved for
	// contexts — none in the default grammar — where a closed set is
	// mandatory and violated.
	UnknownResponseCode
	// TrailingGarbage means bytes remain between a complete message and
	// the next CRLF that cannot be attributed to a recognized production.
	TrailingGarbage
)

func (k ErrorKind) String() string {
	switch k {
	case GrammarViolation:
		return "grammar violation"
	case InvalidTerminal:
		return "invalid terminal"
	case LiteralTooLarge:
		return "literal too large"
	case UnknownCommand:
		return "unknown command"
	case UnknownResponseCode:
		return "unknown response code"
	case TrailingGarbage:
		return "trailing garbage"
	default:
		return fmt.Sprintf("unknown error kind(%d)", int(k))
	}
}

// DecodeError is the error surfaced by a Failed decode result. Every
// error carries the byte offset at which the grammar was violated and a
// short diagnostic; it is never recovered internally.
type DecodeError struct {
	Offset int
	Kind   ErrorKind
	Msg    string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("imap/wire: %s at offset %d: %s", e.Kind, e.Offset, e.Msg)
}

func newErr(offset int, kind ErrorKind, format string, args ...interface{}) *DecodeError {
	return &DecodeError{Offset: offset, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
