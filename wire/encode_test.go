package wire

import (
	"bytes"
	"testing"

	"github.com/coalooball/imap-codec/imap"
)

// joinFragments concatenates a fragment list's bytes, the way a caller
// would before handing them to a socket.
func joinFragments(frags []Fragment) []byte {
	var out []byte
	for _, f := range frags {
		out = append(out, f.Bytes...)
	}
	return out
}

// decodeFullCommand runs DecodeCommand to completion against a buffer
// that already holds every byte the command will ever need, acking
// synchronizing literals as they're requested.
func decodeFullCommand(t *testing.T, data []byte, opts Options) imap.Command {
	t.Helper()
	cur := Cursor{Data: data}
	for {
		res := DecodeCommand(cur, opts)
		switch res.Status {
		case Complete:
			return res.Value
		case LiteralAckRequired:
			cur = *res.Resume
		default:
			t.Fatalf("decode command %q: status=%v err=%v", data, res.Status, res.Err)
		}
	}
}

func decodeFullResponse(t *testing.T, data []byte, opts Options) imap.Response {
	t.Helper()
	cur := Cursor{Data: data}
	for {
		res := DecodeResponse(cur, opts)
		switch res.Status {
		case Complete:
			return res.Value
		case LiteralAckRequired:
			cur = *res.Resume
		default:
			t.Fatalf("decode response %q: status=%v err=%v", data, res.Status, res.Err)
		}
	}
}

func TestEncodeCommandRoundTrip(t *testing.T) {
	opts := DefaultOptions()
	tests := []struct {
		name string
		cmd  imap.Command
	}{
		{
			name: "login with astrings",
			cmd: imap.Command{Tag: "A001", Body: imap.Login{Username: "fred", Password: "foo bar"}},
		},
		{
			name: "select inbox",
			cmd:  imap.Command{Tag: "A002", Body: imap.Select{Mailbox: imap.NewMailbox("inbox")}},
		},
		{
			name: "select with condstore",
			cmd:  imap.Command{Tag: "A003", Body: imap.Select{Mailbox: imap.NewMailbox("Drafts"), CondStore: true}},
		},
		{
			name: "capability",
			cmd:  imap.Command{Tag: "A004", Body: imap.Capability{}},
		},
		{
			name: "uid fetch wildcard range",
			cmd: imap.Command{Tag: "A005", Body: imap.UID{Sub: imap.Fetch{
				Set:   imap.SequenceSet{Elems: []imap.SeqElem{{Range: true, Lo: imap.SeqBound{Num: 1}, Hi: imap.SeqBound{Star: true}}}},
				Attrs: []imap.FetchAttr{{Kind: "FLAGS"}, {Kind: "UID"}},
			}}},
		},
		{
			name: "fetch body section with header fields",
			cmd: imap.Command{Tag: "A006", Body: imap.Fetch{
				Set: imap.Single(42),
				Attrs: []imap.FetchAttr{{Section: &imap.BodySection{
					Peek:      true,
					Specifier: imap.SectionHeaderFlds,
					Fields:    []string{"FROM", "TO"},
				}}},
			}},
		},
		{
			name: "store silent flags",
			cmd: imap.Command{Tag: "A007", Body: imap.Store{
				Set:   imap.Single(7),
				Flags: imap.StoreFlags{Op: "+FLAGS", Silent: true, Flags: []imap.Flag{imap.FlagDeleted}},
			}},
		},
		{
			name: "search header key",
			cmd: imap.Command{Tag: "A008", Body: imap.Search{
				Keys: []imap.SearchKey{{Kind: "HEADER", Str: "Subject hello world"}},
			}},
		},
		{
			name: "search or not",
			cmd: imap.Command{Tag: "A009", Body: imap.Search{
				Keys: []imap.SearchKey{{Kind: "OR", Sub: []imap.SearchKey{
					{Kind: "NOT", Sub: []imap.SearchKey{{Kind: "SEEN"}}},
					{Kind: "DELETED"},
				}}},
			}},
		},
		{
			name: "append with literal",
			cmd: imap.Command{Tag: "A010", Body: imap.Append{
				Mailbox: imap.NewMailbox("INBOX"),
				Flags:   []imap.Flag{imap.FlagSeen},
				Message: []byte("Subject: hi\r\n\r\nbody\r\n"),
			}},
		},
		{
			name: "authenticate with initial response",
			cmd: imap.Command{Tag: "A011", Body: imap.Authenticate{
				Mechanism: "PLAIN", InitialResponse: []byte("AHVzZXIAcGFzcw=="), HasInitial: true,
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frags := EncodeCommand(tt.cmd)
			wire := joinFragments(frags)
			got := decodeFullCommand(t, wire, opts)
			if got.Tag != tt.cmd.Tag {
				t.Errorf("Tag: got %q, want %q", got.Tag, tt.cmd.Tag)
			}
			if got.Body.Name() != tt.cmd.Body.Name() {
				t.Errorf("Body.Name(): got %q, want %q", got.Body.Name(), tt.cmd.Body.Name())
			}
		})
	}
}

func TestEncodeCommandLiteralGating(t *testing.T) {
	cmd := imap.Command{Tag: "A010", Body: imap.Append{
		Mailbox: imap.NewMailbox("INBOX"),
		Message: []byte("hello world"),
	}}
	frags := EncodeCommand(cmd)
	var gates int
	for i, f := range frags {
		if f.Kind == LiteralGate {
			gates++
			if f.LiteralSize != 11 {
				t.Errorf("fragment %d: LiteralSize = %d, want 11", i, f.LiteralSize)
			}
		}
	}
	if gates != 1 {
		t.Fatalf("expected exactly one LiteralGate fragment, got %d", gates)
	}
}

func TestEncodeCommandNonSyncLiteral(t *testing.T) {
	e := &encoder{}
	e.literal([]byte("abc"), true)
	frags := e.fragments()
	if len(frags) != 1 {
		t.Fatalf("non-synchronizing literal must not split fragments, got %d", len(frags))
	}
	if !bytes.Contains(frags[0].Bytes, []byte("{3+}\r\nabc")) {
		t.Errorf("got %q", frags[0].Bytes)
	}
}

func TestEncodeGreetingRoundTrip(t *testing.T) {
	opts := DefaultOptions()
	g := imap.Greeting{Kind: imap.StatusOK, Text: "IMAP4rev1 Service Ready"}
	wire := joinFragments(EncodeGreeting(g))
	cur := Cursor{Data: wire}
	res := DecodeGreeting(cur, opts)
	if res.Status != Complete {
		t.Fatalf("status = %v, err = %v", res.Status, res.Err)
	}
	if res.Value.Kind != g.Kind || res.Value.Text != g.Text {
		t.Errorf("got %+v, want %+v", res.Value, g)
	}
}

func TestEncodeResponseRoundTrip(t *testing.T) {
	opts := DefaultOptions()
	tests := []struct {
		name string
		resp imap.Response
	}{
		{
			name: "tagged ok without code",
			resp: imap.Response{Status: &imap.Status{
				Tag: "A001", Kind: imap.StatusOK, Text: "LOGIN completed",
			}},
		},
		{
			name: "untagged ok without code",
			resp: imap.Response{Status: &imap.Status{
				Kind: imap.StatusOK, Text: "ready",
			}},
		},
		{
			name: "untagged exists",
			resp: imap.Response{Data: imap.Exists{Count: 172}},
		},
		{
			name: "untagged flags",
			resp: imap.Response{Data: imap.FlagsData{Flags: []imap.Flag{imap.FlagSeen, imap.FlagDeleted}}},
		},
		{
			name: "tagged ok with permanentflags code",
			resp: imap.Response{Status: &imap.Status{
				Tag: "A001", Kind: imap.StatusOK,
				Code: &imap.RespCode{Name: imap.RespCodePermanentFlags, Arg: []imap.Flag{imap.FlagDeleted, imap.FlagSeen}},
				Text: "Flags permitted",
			}},
		},
		{
			name: "tagged ok with badcharset code",
			resp: imap.Response{Status: &imap.Status{
				Tag: "A002", Kind: imap.StatusNO,
				Code: &imap.RespCode{Name: imap.RespCodeBadCharset, Arg: []string{"US-ASCII", "UTF-8 with spaces"}},
				Text: "cannot decode",
			}},
		},
		{
			name: "untagged list",
			resp: imap.Response{Data: imap.ListData{
				Attrs: []imap.MailboxAttr{imap.MailboxAttrNoSelect}, Delim: '/', HasDelim: true,
				Mailbox: imap.NewMailbox("Archive/2020"),
			}},
		},
		{
			name: "untagged search with modseq",
			resp: imap.Response{Data: imap.SearchData{Nums: []uint32{2, 3, 5}, ModSeq: 9173, HasModSeq: true}},
		},
		{
			name: "untagged vanished earlier",
			resp: imap.Response{Data: imap.Vanished{
				Earlier: true,
				UIDs:    imap.SequenceSet{Elems: []imap.SeqElem{{Range: true, Lo: imap.SeqBound{Num: 300}, Hi: imap.SeqBound{Num: 310}}}},
			}},
		},
		{
			name: "continuation request",
			resp: imap.Response{Continuation: &imap.Continuation{Text: "send literal"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wire := joinFragments(EncodeResponse(tt.resp))
			got := decodeFullResponse(t, wire, opts)
			switch {
			case tt.resp.Status != nil:
				if got.Status == nil {
					t.Fatalf("got nil Status")
				}
				if got.Status.Tag != tt.resp.Status.Tag || got.Status.Kind != tt.resp.Status.Kind || got.Status.Text != tt.resp.Status.Text {
					t.Errorf("Status: got %+v, want %+v", got.Status, tt.resp.Status)
				}
			case tt.resp.Continuation != nil:
				if got.Continuation == nil || got.Continuation.Text != tt.resp.Continuation.Text {
					t.Errorf("Continuation: got %+v, want %+v", got.Continuation, tt.resp.Continuation)
				}
			default:
				if got.Data == nil || got.Data.Name() != tt.resp.Data.Name() {
					t.Errorf("Data: got %+v, want name %q", got.Data, tt.resp.Data.Name())
				}
			}
		})
	}
}

func TestEncodeFetchDataEnvelopeRoundTrip(t *testing.T) {
	opts := DefaultOptions()
	env := &imap.Envelope{
		Subject: "Re: hello",
		From:    []imap.Address{{Name: "Fred Foobar", Mailbox: "foobar", Host: "example.com"}},
		To:      []imap.Address{{Mailbox: "mooch", Host: "owatagu.siam.edu"}},
	}
	resp := imap.Response{Data: imap.FetchData{
		SeqNum:   12,
		Envelope: env,
		HasFlags: true,
		Flags:    []imap.Flag{imap.FlagSeen},
		HasUID:   true,
		UID:      100,
	}}
	wire := joinFragments(EncodeResponse(resp))
	got := decodeFullResponse(t, wire, opts)
	fd, ok := got.Data.(imap.FetchData)
	if !ok {
		t.Fatalf("got %T, want imap.FetchData", got.Data)
	}
	if fd.Envelope == nil || fd.Envelope.Subject != env.Subject {
		t.Fatalf("envelope subject: got %+v", fd.Envelope)
	}
	if len(fd.Envelope.From) != 1 || fd.Envelope.From[0].Mailbox != "foobar" {
		t.Errorf("From: got %+v", fd.Envelope.From)
	}
	if !fd.HasUID || fd.UID != 100 {
		t.Errorf("UID: got %v %v", fd.HasUID, fd.UID)
	}
}

func TestEncodeBodyStructureMultipartRoundTrip(t *testing.T) {
	opts := DefaultOptions()
	bs := &imap.BodyStructure{
		Type: "MULTIPART", Subtype: "MIXED",
		Children: []imap.BodyStructure{
			{Type: "TEXT", Subtype: "PLAIN", Encoding: "7BIT", Params: map[string]string{"CHARSET": "us-ascii"}},
			{Type: "APPLICATION", Subtype: "OCTET-STREAM", Encoding: "BASE64"},
		},
	}
	resp := imap.Response{Data: imap.FetchData{SeqNum: 1, Body: bs, BodyStructure: true}}
	wire := joinFragments(EncodeResponse(resp))
	got := decodeFullResponse(t, wire, opts)
	fd := got.Data.(imap.FetchData)
	if fd.Body == nil || fd.Body.Type != "MULTIPART" || len(fd.Body.Children) != 2 {
		t.Fatalf("got %+v", fd.Body)
	}
	if fd.Body.Children[0].Params["CHARSET"] != "us-ascii" {
		t.Errorf("params: got %+v", fd.Body.Children[0].Params)
	}
}

func TestEncodeFetchSectionDataRoundTrip(t *testing.T) {
	opts := DefaultOptions()
	resp := imap.Response{Data: imap.FetchData{
		SeqNum: 3,
		Sections: []imap.FetchSectionData{
			{Section: imap.BodySection{Specifier: imap.SectionText}, Data: []byte("hello world")},
			{Section: imap.BodySection{}, HasOffset: true, Offset: 10, Data: []byte("partial")},
		},
	}}
	wire := joinFragments(EncodeResponse(resp))
	got := decodeFullResponse(t, wire, opts)
	fd := got.Data.(imap.FetchData)
	if len(fd.Sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(fd.Sections))
	}
	if string(fd.Sections[0].Data) != "hello world" {
		t.Errorf("section 0 data: got %q", fd.Sections[0].Data)
	}
	if !fd.Sections[1].HasOffset || fd.Sections[1].Offset != 10 {
		t.Errorf("section 1 offset: got %+v", fd.Sections[1])
	}
}

func TestNeedsQuotingAndLiteral(t *testing.T) {
	if needsQuoting("") != true {
		t.Error("empty string needs quoting")
	}
	if needsQuoting("INBOX") {
		t.Error("INBOX is a bare atom")
	}
	if !needsQuoting("a b") {
		t.Error("a space forces quoting")
	}
	if needsLiteral("a b") {
		t.Error("a plain space does not force a literal")
	}
	if !needsLiteral("a\r\nb") {
		t.Error("embedded CRLF forces a literal")
	}
}

func TestEncodeAuthenticateDataRoundTrip(t *testing.T) {
	opts := DefaultOptions()
	a := imap.AuthenticateData{Data: []byte("hello")}
	wire := joinFragments(EncodeAuthenticateData(a))
	cur := Cursor{Data: wire}
	res := DecodeAuthenticateData(cur, opts)
	if res.Status != Complete {
		t.Fatalf("status = %v err = %v", res.Status, res.Err)
	}
	if !bytes.Equal(res.Value.Data, a.Data) {
		t.Errorf("got %q, want %q", res.Value.Data, a.Data)
	}

	cancel := imap.AuthenticateData{Cancel: true}
	wire = joinFragments(EncodeAuthenticateData(cancel))
	res = DecodeAuthenticateData(Cursor{Data: wire}, opts)
	if res.Status != Complete || !res.Value.Cancel {
		t.Fatalf("cancel round trip failed: %+v", res)
	}
}
