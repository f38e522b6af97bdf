package wire

import (
	"testing"

	"github.com/coalooball/imap-codec/imap"
)

func TestDecodeCommandBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantVerb string
	}{
		{"select", "A001 SELECT INBOX\r\n", "SELECT"},
		{"lowercase verb", "A001 select inbox\r\n", "SELECT"},
		{"uid store", "A002 UID STORE 1 +FLAGS (\\Deleted)\r\n", "UID"},
		{"noop", "A003 NOOP\r\n", "NOOP"},
		{"logout", "A004 LOGOUT\r\n", "LOGOUT"},
	}
	opts := DefaultOptions()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := DecodeCommand(Cursor{Data: []byte(tt.input)}, opts)
			if res.Status != Complete {
				t.Fatalf("status = %v, err = %v", res.Status, res.Err)
			}
			if res.Value.Body.Name() != tt.wantVerb {
				t.Errorf("verb: got %q, want %q", res.Value.Body.Name(), tt.wantVerb)
			}
			if len(res.Residual) != 0 {
				t.Errorf("residual: got %q, want empty", res.Residual)
			}
		})
	}
}

func TestDecodeCommandIncomplete(t *testing.T) {
	opts := DefaultOptions()
	res := DecodeCommand(Cursor{Data: []byte("A001 SELECT IN")}, opts)
	if res.Status != Incomplete {
		t.Fatalf("status = %v, want Incomplete", res.Status)
	}
}

func TestDecodeCommandUnknownVerb(t *testing.T) {
	opts := DefaultOptions()
	res := DecodeCommand(Cursor{Data: []byte("A001 BOGUSVERB\r\n")}, opts)
	if res.Status != Failed {
		t.Fatalf("status = %v, want Failed", res.Status)
	}
	if res.Err == nil {
		t.Fatal("expected a non-nil DecodeError")
	}
}

func TestDecodeCommandSynchronizingLiteral(t *testing.T) {
	opts := DefaultOptions()
	full := []byte("A001 APPEND INBOX {5}\r\nhello\r\n")

	res := DecodeCommand(Cursor{Data: full}, opts)
	if res.Status != LiteralAckRequired {
		t.Fatalf("status = %v, want LiteralAckRequired", res.Status)
	}
	if res.LiteralSize != 5 {
		t.Errorf("LiteralSize = %d, want 5", res.LiteralSize)
	}
	if res.Resume == nil || res.Resume.Acked != 1 {
		t.Fatalf("Resume = %+v, want Acked=1", res.Resume)
	}

	res = DecodeCommand(*res.Resume, opts)
	if res.Status != Complete {
		t.Fatalf("status after ack = %v, err = %v", res.Status, res.Err)
	}
	appnd, ok := res.Value.Body.(imap.Append)
	if !ok {
		t.Fatalf("got %T, want imap.Append", res.Value.Body)
	}
	if string(appnd.Message) != "hello" {
		t.Errorf("Message = %q, want %q", appnd.Message, "hello")
	}
}

func TestDecodeCommandNonSynchronizingLiteralNoAck(t *testing.T) {
	opts := DefaultOptions()
	full := []byte("A001 APPEND INBOX {5+}\r\nhello\r\n")
	res := DecodeCommand(Cursor{Data: full}, opts)
	if res.Status != Complete {
		t.Fatalf("status = %v, err = %v, want Complete with no ack round trip", res.Status, res.Err)
	}
}

func TestDecodeQuirkCRLFRelaxed(t *testing.T) {
	opts := DefaultOptions()
	opts.QuirkCRLFRelaxed = true
	res := DecodeCommand(Cursor{Data: []byte("A001 NOOP\n")}, opts)
	if res.Status != Complete {
		t.Fatalf("status = %v, err = %v", res.Status, res.Err)
	}

	strict := DefaultOptions()
	res = DecodeCommand(Cursor{Data: []byte("A001 NOOP\n")}, strict)
	if res.Status == Complete {
		t.Fatalf("bare LF should not be accepted without QuirkCRLFRelaxed")
	}
}

func TestDecodeQuirkMissingText(t *testing.T) {
	opts := DefaultOptions()
	res := DecodeResponse(Cursor{Data: []byte("A001 OK [READ-ONLY]\r\n")}, opts)
	if res.Status != Complete {
		t.Fatalf("status = %v, err = %v", res.Status, res.Err)
	}
	if res.Value.Status.Text != "<missing text>" {
		t.Errorf("Text = %q, want synthesized missing-text marker", res.Value.Status.Text)
	}

	opts.QuirkMissingText = false
	res = DecodeResponse(Cursor{Data: []byte("A001 OK [READ-ONLY]\r\n")}, opts)
	if res.Status != Failed {
		t.Fatalf("status = %v, want Failed once quirk_missing_text is disabled", res.Status)
	}
}

func TestDecodeQuirkRectifyNumbers(t *testing.T) {
	opts := DefaultOptions()
	res := DecodeResponse(Cursor{Data: []byte("* OK [UIDNEXT -1] ok\r\n")}, opts)
	if res.Status != Complete {
		t.Fatalf("status = %v, err = %v", res.Status, res.Err)
	}
	n, ok := res.Value.Status.Code.Arg.(uint32)
	if !ok || n != 0 {
		t.Errorf("UIDNEXT arg = %v, want rectified 0", res.Value.Status.Code.Arg)
	}
}

func TestDecodeBadCharsetCode(t *testing.T) {
	opts := DefaultOptions()
	res := DecodeResponse(Cursor{Data: []byte("A001 NO [BADCHARSET (\"US-ASCII\" \"UTF-8\")] cannot decode\r\n")}, opts)
	if res.Status != Complete {
		t.Fatalf("status = %v, err = %v", res.Status, res.Err)
	}
	sets, ok := res.Value.Status.Code.Arg.([]string)
	if !ok {
		t.Fatalf("Arg type = %T, want []string", res.Value.Status.Code.Arg)
	}
	if len(sets) != 2 || sets[0] != "US-ASCII" || sets[1] != "UTF-8" {
		t.Errorf("sets = %+v", sets)
	}
}

func TestFramerNext(t *testing.T) {
	f := NewFramer(DefaultOptions())
	buf := []byte("A001 APPEND INBOX {5}\r\nhello\r\nA002 NOOP\r\n")
	rec, rest, ok := f.Next(buf)
	if !ok {
		t.Fatal("expected a complete record")
	}
	if string(rec.Bytes) != "A001 APPEND INBOX {5}\r\nhello\r\n" {
		t.Errorf("record = %q", rec.Bytes)
	}
	rec2, rest2, ok := f.Next(rest)
	if !ok {
		t.Fatal("expected a second complete record")
	}
	if string(rec2.Bytes) != "A002 NOOP\r\n" {
		t.Errorf("record2 = %q", rec2.Bytes)
	}
	if len(rest2) != 0 {
		t.Errorf("rest2 = %q, want empty", rest2)
	}
}

func TestFramerNextIncomplete(t *testing.T) {
	f := NewFramer(DefaultOptions())
	_, _, ok := f.Next([]byte("A001 APPEND INBOX {10}\r\nshort"))
	if ok {
		t.Fatal("expected incomplete: literal body not fully buffered")
	}
}
