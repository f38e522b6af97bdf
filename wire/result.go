package wire

import "github.com/coalooball/imap-codec/imap"

// Status is the outcome of one decode attempt.
type Status int

const (
	// Complete means a well-formed value was decoded; Residual holds the
	// unconsumed tail of the input.
	Complete Status = iota
	// Incomplete means more bytes are needed before a decision can be
	// made; Need describes how many, when known.
	Incomplete
	// LiteralAckRequired means a synchronizing literal header has been
	// parsed and the caller must send a continuation response before
	// more input will help; LiteralSize is the literal's declared length.
	LiteralAckRequired
	// Failed means the grammar was violated; Err describes where and how.
	Failed
)

func (s Status) String() string {
	switch s {
	case Complete:
		return "Complete"
	case Incomplete:
		return "Incomplete"
	case LiteralAckRequired:
		return "LiteralAckRequired"
	case Failed:
		return "Failed"
	default:
		return "Status(?)"
	}
}

// Need describes how many additional bytes an Incomplete result expects.
// Exact is true only while in the middle of reading a literal's declared
// payload; otherwise the hint is "more", with Bytes meaningless.
type Need struct {
	Exact bool
	Bytes int64
}

// Cursor is the input to every decode entry point: the accumulated bytes
// for the message being decoded (always starting at its own offset 0,
// regardless of how many decode attempts preceded this one) plus how
// many synchronizing-literal headers encountered during earlier attempts
// at this same message the caller has already acknowledged.
//
// The Acked counter resolves a tension between two requirements: a
// decoder that keeps no state of its own cannot remember, call to call,
// that it already emitted LiteralAckRequired for the second literal in a
// command — the caller must tell it. Every LiteralAckRequired result's
// Resume field is a ready-made Cursor with Acked incremented, so callers
// that don't want to track the counter themselves can just pass Resume
// straight back in once they've sent the continuation and appended any
// newly-arrived bytes to Resume.Data.
type Cursor struct {
	Data  []byte
	Acked int
}

// GreetingResult is the outcome of DecodeGreeting.
type GreetingResult struct {
	Status   Status
	Value    imap.Greeting
	Residual []byte
	Need     Need
	LiteralSize int64
	Resume   *Cursor
	Err      *DecodeError
}

// CommandResult is the outcome of DecodeCommand.
type CommandResult struct {
	Status      Status
	Value       imap.Command
	Residual    []byte
	Need        Need
	LiteralSize int64
	Resume      *Cursor
	Err         *DecodeError
}

// ResponseResult is the outcome of DecodeResponse.
type ResponseResult struct {
	Status      Status
	Value       imap.Response
	Residual    []byte
	Need        Need
	LiteralSize int64
	Resume      *Cursor
	Err         *DecodeError
}

// AuthDataResult is the outcome of DecodeAuthenticateData.
type AuthDataResult struct {
	Status      Status
	Value       imap.AuthenticateData
	Residual    []byte
	Need        Need
	LiteralSize int64
	Resume      *Cursor
	Err         *DecodeError
}
