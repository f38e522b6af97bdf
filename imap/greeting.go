package imap

// Greeting is the server's initial unsolicited message.
type Greeting struct {
	Kind StatusKind // OK, PREAUTH, or BYE
	Code *RespCode
	Text string
}

// AuthenticateData is one line of the client side of a SASL exchange
// between AUTHENTICATE and the final tagged status: either a base64
// blob or the cancellation marker "*".
type AuthenticateData struct {
	Cancel bool
	Data   []byte // decoded bytes; empty and meaningless when Cancel is true
}
