package imap

// StatusKind is the verb of a status response: OK, NO, BAD, BYE, or
// PREAUTH.
type StatusKind string

// Standard status kinds (RFC 3501 section 7.1).
const (
	StatusOK      StatusKind = "OK"
	StatusNO      StatusKind = "NO"
	StatusBAD     StatusKind = "BAD"
	StatusBYE     StatusKind = "BYE"
	StatusPREAUTH StatusKind = "PREAUTH"
)

// RespCodeName names a bracketed response code ("[UIDVALIDITY 123]").
type RespCodeName string

// Standard response codes (RFC 3501 section 7.1, plus the UIDPLUS,
// CONDSTORE/QRESYNC, and referral extensions).
const (
	RespCodeAlert          RespCodeName = "ALERT"
	RespCodeBadCharset     RespCodeName = "BADCHARSET"
	RespCodeCapability     RespCodeName = "CAPABILITY"
	RespCodeParse          RespCodeName = "PARSE"
	RespCodePermanentFlags RespCodeName = "PERMANENTFLAGS"
	RespCodeReadOnly       RespCodeName = "READ-ONLY"
	RespCodeReadWrite      RespCodeName = "READ-WRITE"
	RespCodeTryCreate      RespCodeName = "TRYCREATE"
	RespCodeUIDNext        RespCodeName = "UIDNEXT"
	RespCodeUIDValidity    RespCodeName = "UIDVALIDITY"
	RespCodeUnseen         RespCodeName = "UNSEEN"
	RespCodeAppendUID      RespCodeName = "APPENDUID"
	RespCodeCopyUID        RespCodeName = "COPYUID"
	RespCodeHighestModSeq  RespCodeName = "HIGHESTMODSEQ" // ext_condstore_qresync
	RespCodeReferral       RespCodeName = "REFERRAL"       // ext_login_referrals / ext_mailbox_referrals
)

// RespCode is a response code and its optional argument.
//
// Arg holds a concretely-typed argument for the codes the codec knows
// about (uint32 for UIDNEXT/UIDVALIDITY/UNSEEN, uint64 for
// HIGHESTMODSEQ, []string for BADCHARSET, CapList for CAPABILITY,
// string for REFERRAL, AppendUID/CopyUID for their respective codes),
// or nil when Name carries no argument (ALERT, READ-ONLY, READ-WRITE,
// TRYCREATE, PARSE).
//
// An unrecognized bracketed code is not a parse failure: it decodes to
// Name set to the raw atom and Arg set to an UnknownCode (below)
// holding that atom and the raw trailing text, if any.
type RespCode struct {
	Name RespCodeName
	Arg  interface{}
}

// UnknownCode marks a RespCode.Arg whose Name the codec does not
// recognize as one of the standard codes above.
type UnknownCode struct {
	Name string
	Text string
}

// AppendUID is the argument of RespCodeAppendUID: "[APPENDUID uidvalidity uid-set]".
type AppendUID struct {
	UIDValidity uint32
	UIDs        SequenceSet
}

// CopyUID is the argument of RespCodeCopyUID: "[COPYUID uidvalidity source dest]".
type CopyUID struct {
	UIDValidity uint32
	Source      SequenceSet
	Dest        SequenceSet
}

// Status is a complete status response: a kind, an optional tag (absent
// for untagged responses), an optional response code, and mandatory
// human-readable text.
type Status struct {
	// Tag is empty for untagged ("* OK ...") status responses.
	Tag  Tag
	Kind StatusKind
	Code *RespCode
	Text string
}
