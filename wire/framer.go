package wire

import "bytes"

// Record is one line-or-literal unit a Framer has isolated: the raw
// bytes of a complete logical IMAP line, which may itself embed one or
// more literal payloads counted into its length but not otherwise
// distinguished (the grammar layer, not the framer, interprets literal
// contents).
type Record struct {
	// Bytes is the complete record, CRLF(s) included.
	Bytes []byte
}

// Framer reduces a byte stream to Records by scanning for line
// terminators and, when a line ends in a literal header ("{N}", "{N+}",
// "~{N}", or "~{N+}"), reading exactly N further octets before resuming
// the search for the next terminator. This is the canonical pre-parser
// any transport wrapper needs: the core exposes the algorithm, it does
// not own the socket.
//
// Framer does not itself wait for a continuation ack on synchronizing
// literals: a transport wrapper that needs that handshake composes
// Framer's line boundaries with wire.DecodeCommand/DecodeResponse's
// LiteralAckRequired signal, since only the grammar layer knows which
// literals are synchronizing.
type Framer struct {
	opts Options
}

// NewFramer creates a Framer honoring the given quirks (only
// QuirkCRLFRelaxed affects framing).
func NewFramer(opts Options) *Framer {
	return &Framer{opts: opts}
}

// Next scans buf for the next complete Record starting at offset 0. It
// returns the record, the unconsumed tail of buf, and ok=true on
// success; ok=false means buf does not yet contain a complete record
// (the caller should append more bytes and retry from the start, per
// the same streaming discipline as the decoder).
func (f *Framer) Next(buf []byte) (rec Record, rest []byte, ok bool) {
	pos := 0
	for {
		nlAt, nlLen, found := f.findTerminator(buf[pos:])
		if !found {
			return Record{}, nil, false
		}
		lineEnd := pos + nlAt + nlLen
		n, _, isLiteral := parseTrailingLiteralHeader(buf[pos:lineEnd])
		if !isLiteral {
			return Record{Bytes: buf[:lineEnd]}, buf[lineEnd:], true
		}
		if int64(len(buf))-int64(lineEnd) < n {
			return Record{}, nil, false
		}
		pos = lineEnd + int(n)
	}
}

// findTerminator finds the first line terminator in buf, returning its
// offset and length (2 for CRLF, 1 for a bare LF under
// QuirkCRLFRelaxed).
func (f *Framer) findTerminator(buf []byte) (offset int, length int, found bool) {
	if f.opts.QuirkCRLFRelaxed {
		i := bytes.IndexByte(buf, '\n')
		if i < 0 {
			return 0, 0, false
		}
		if i > 0 && buf[i-1] == '\r' {
			return i - 1, 2, true
		}
		return i, 1, true
	}
	i := bytes.Index(buf, []byte("\r\n"))
	if i < 0 {
		return 0, 0, false
	}
	return i, 2, true
}

// parseTrailingLiteralHeader inspects a line (CRLF included) for a
// trailing "{N}"/"{N+}"/"~{N}"/"~{N+}" literal header immediately before
// the terminator, via a backward scan from the closing brace.
func parseTrailingLiteralHeader(line []byte) (n int64, nonSync bool, ok bool) {
	data := bytes.TrimRight(line, "\r\n")
	if len(data) == 0 || data[len(data)-1] != '}' {
		return 0, false, false
	}
	closeIdx := len(data) - 1
	openIdx := bytes.LastIndexByte(data[:closeIdx], '{')
	if openIdx < 0 {
		return 0, false, false
	}
	if openIdx > 0 && data[openIdx-1] == '~' {
		// Binary literal prefix; does not change the trailing-digits scan.
	}
	inner := data[openIdx+1 : closeIdx]
	if len(inner) == 0 {
		return 0, false, false
	}
	ns := false
	if inner[len(inner)-1] == '+' {
		ns = true
		inner = inner[:len(inner)-1]
	}
	if len(inner) == 0 {
		return 0, false, false
	}
	for _, c := range inner {
		if c < '0' || c > '9' {
			return 0, false, false
		}
	}
	var val int64
	for _, c := range inner {
		val = val*10 + int64(c-'0')
	}
	return val, ns, true
}
