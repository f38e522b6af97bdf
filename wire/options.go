package wire

import "math"

// Options selects the quirk relaxations and extension feature flags
// passed to the Decode* entry points (the Encode* functions take no
// options). The zero value is NOT the default
// configuration; use DefaultOptions() for the documented defaults
// (quirk_rectify_numbers and quirk_missing_text enabled,
// quirk_crlf_relaxed disabled).
type Options struct {
	// Quirks. Each is a strictly additive relaxation of one production's
	// accept set; none narrow the default grammar, so quirks commute.

	// QuirkCRLFRelaxed accepts a bare "\n" anywhere "\r\n" is required.
	QuirkCRLFRelaxed bool
	// QuirkRectifyNumbers rectifies the string "-1" to 0 where a
	// non-negative integer is required (a known Dovecot misbehavior).
	QuirkRectifyNumbers bool
	// QuirkMissingText accepts a status line ending "[<code>]\r\n" with
	// no text, synthesizing "<missing text>" (a known Gmail misbehavior).
	QuirkMissingText bool

	// Extension feature flags. The grammar does not consult any of
	// them: STARTTLS, the CONDSTORE/QRESYNC parameters and VANISHED
	// responses, and the REFERRAL response code are decoded whatever
	// these fields say. They are carried so a configuration (see package
	// quirkconfig) can record them.

	// StartTLS names the STARTTLS command and its response handling.
	StartTLS bool
	// ExtCondstoreQresync names CONDSTORE (64-bit mod-sequences) and
	// QRESYNC (VANISHED responses) grammar.
	ExtCondstoreQresync bool
	// ExtLoginReferrals names the REFERRAL response code on LOGIN
	// failures.
	ExtLoginReferrals bool
	// ExtMailboxReferrals names the REFERRAL response code on mailbox
	// operations.
	ExtMailboxReferrals bool

	// MaxLiteralSize is the implementation-chosen ceiling for a literal
	// length, above which a literal header fails with LiteralTooLarge. A
	// zero value means "use DefaultMaxLiteralSize".
	MaxLiteralSize int64
}

// DefaultMaxLiteralSize is the required floor for any ceiling an
// implementation chooses: at least 2^32 - 1, so any literal length an
// RFC 3501 peer can legally send is representable.
const DefaultMaxLiteralSize = math.MaxUint32

// DefaultOptions returns the default configuration: quirk_rectify_numbers
// and quirk_missing_text enabled, everything else (including
// quirk_crlf_relaxed and all extension flags) disabled.
func DefaultOptions() Options {
	return Options{
		QuirkRectifyNumbers: true,
		QuirkMissingText:    true,
		MaxLiteralSize:      DefaultMaxLiteralSize,
	}
}

func (o Options) maxLiteralSize() int64 {
	if o.MaxLiteralSize <= 0 {
		return DefaultMaxLiteralSize
	}
	return o.MaxLiteralSize
}
