package imap

// Command is a tagged client command: a tag plus one typed command body.
type Command struct {
	Tag  Tag
	Body CommandBody
}

// CommandBody is implemented by every concrete command body type below.
// The unexported method makes the set closed: only types in this package
// satisfy it, so the wire decoder can never be asked to encode a body it
// doesn't know how to serialize.
type CommandBody interface {
	commandBody()
	// Name returns the canonical upper-case command verb, e.g. "LOGIN".
	Name() string
}

type cmdBase struct{}

func (cmdBase) commandBody() {}

// --- Any-state commands ---

type Capability struct{ cmdBase }

func (Capability) Name() string { return "CAPABILITY" }

type Noop struct{ cmdBase }

func (Noop) Name() string { return "NOOP" }

type Logout struct{ cmdBase }

func (Logout) Name() string { return "LOGOUT" }

// --- Not-authenticated state commands ---

type StartTLS struct{ cmdBase }

func (StartTLS) Name() string { return "STARTTLS" }

// Authenticate begins a SASL exchange. Mechanism is the SASL mechanism
// name; InitialResponse is the optional SASL-IR initial response, present
// when HasInitial is true.
type Authenticate struct {
	cmdBase
	Mechanism       string
	InitialResponse []byte
	HasInitial      bool
}

func (Authenticate) Name() string { return "AUTHENTICATE" }

// Login is LOGIN with the username/password carried as astrings so the
// decoder/encoder can choose atom, quoted, or literal form per value.
type Login struct {
	cmdBase
	Username string
	Password string
}

func (Login) Name() string { return "LOGIN" }

// --- Authenticated state commands ---

type Enable struct {
	cmdBase
	Caps []Cap
}

func (Enable) Name() string { return "ENABLE" }

type Select struct {
	cmdBase
	Mailbox   Mailbox
	CondStore bool // ext_condstore_qresync: "SELECT mailbox (CONDSTORE)"
}

func (Select) Name() string { return "SELECT" }

type Examine struct {
	cmdBase
	Mailbox   Mailbox
	CondStore bool
}

func (Examine) Name() string { return "EXAMINE" }

type Create struct {
	cmdBase
	Mailbox    Mailbox
	SpecialUse MailboxAttr
}

func (Create) Name() string { return "CREATE" }

type Delete struct {
	cmdBase
	Mailbox Mailbox
}

func (Delete) Name() string { return "DELETE" }

type Rename struct {
	cmdBase
	From, To Mailbox
}

func (Rename) Name() string { return "RENAME" }

type Subscribe struct {
	cmdBase
	Mailbox Mailbox
}

func (Subscribe) Name() string { return "SUBSCRIBE" }

type Unsubscribe struct {
	cmdBase
	Mailbox Mailbox
}

func (Unsubscribe) Name() string { return "UNSUBSCRIBE" }

type List struct {
	cmdBase
	Reference Mailbox
	Pattern   string
}

func (List) Name() string { return "LIST" }

type Lsub struct {
	cmdBase
	Reference Mailbox
	Pattern   string
}

func (Lsub) Name() string { return "LSUB" }

type Namespace struct{ cmdBase }

func (Namespace) Name() string { return "NAMESPACE" }

type Status struct {
	cmdBase
	Mailbox Mailbox
	Items   []StatusItem
}

func (Status) Name() string { return "STATUS" }

// StatusItem is one STATUS data item requested or returned.
type StatusItem string

const (
	StatusItemMessages      StatusItem = "MESSAGES"
	StatusItemRecent        StatusItem = "RECENT"
	StatusItemUIDNext       StatusItem = "UIDNEXT"
	StatusItemUIDValidity   StatusItem = "UIDVALIDITY"
	StatusItemUnseen        StatusItem = "UNSEEN"
	StatusItemHighestModSeq StatusItem = "HIGHESTMODSEQ"
)

// Append appends one message (flags/date optional) to Mailbox.
type Append struct {
	cmdBase
	Mailbox Mailbox
	Flags   []Flag
	HasDate bool
	Date    string // already formatted as an IMAP date-time string, opaque here
	Message []byte
}

func (Append) Name() string { return "APPEND" }

type Idle struct{ cmdBase }

func (Idle) Name() string { return "IDLE" }

type Check struct{ cmdBase }

func (Check) Name() string { return "CHECK" }

// --- Selected state commands ---

type Close struct{ cmdBase }

func (Close) Name() string { return "CLOSE" }

type Unselect struct{ cmdBase }

func (Unselect) Name() string { return "UNSELECT" }

type Expunge struct{ cmdBase }

func (Expunge) Name() string { return "EXPUNGE" }

type Search struct {
	cmdBase
	Charset string // empty if omitted
	Keys    []SearchKey
}

func (Search) Name() string { return "SEARCH" }

// SearchKey is one search criterion. Kind selects which fields are
// meaningful, matching the discriminated-union style RFC 3501 section
// 6.4.4 defines for search-key.
type SearchKey struct {
	Kind  string // e.g. "ALL", "ANSWERED", "BEFORE", "HEADER", "OR", "NOT", ...
	Str   string
	Num   uint32
	Date  string
	Flag  Flag
	Seq   *SequenceSet
	Sub   []SearchKey // NOT: len 1; OR: len 2; parenthesized list: any length
	ModSeq uint64     // ext_condstore_qresync
}

type Fetch struct {
	cmdBase
	Set   SequenceSet
	UID   bool // true when reached via "UID FETCH"
	Attrs []FetchAttr

	ChangedSince uint64 // ext_condstore_qresync, 0 if absent
	HasChangedSince bool
}

func (Fetch) Name() string { return "FETCH" }

// FetchAttr is one requested FETCH data item.
type FetchAttr struct {
	Kind    string // "FLAGS", "ENVELOPE", "BODY", "BODY.PEEK", "UID", ...
	Section *BodySection
}

type StoreFlags struct {
	// Op selects the flag operation: "+FLAGS", "-FLAGS", or "FLAGS".
	Op     string
	Silent bool
	Flags  []Flag
}

type Store struct {
	cmdBase
	Set   SequenceSet
	UID   bool
	Flags StoreFlags

	UnchangedSince uint64 // ext_condstore_qresync
	HasUnchangedSince bool
}

func (Store) Name() string { return "STORE" }

type Copy struct {
	cmdBase
	Set     SequenceSet
	UID     bool
	Mailbox Mailbox
}

func (Copy) Name() string { return "COPY" }

type Move struct {
	cmdBase
	Set     SequenceSet
	UID     bool
	Mailbox Mailbox
}

func (Move) Name() string { return "MOVE" }

// UID wraps a COPY/MOVE/FETCH/STORE/SEARCH sub-command so callers can
// dispatch on the wrapped body's Name() just like a bare command. The
// decoder does not accept UID EXPUNGE; it fails with UnknownCommand.
type UID struct {
	cmdBase
	Sub CommandBody
}

func (UID) Name() string { return "UID" }
