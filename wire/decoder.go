package wire

import "github.com/coalooball/imap-codec/imap"

// decodeAttempt runs parse against a fresh scanner over cur and reduces
// whatever it returns to the six pieces every Result struct is built
// from. It is the one place that understands the ctrl sentinel.
func decodeAttempt(cur Cursor, opts Options, parse func(s *scanner) error) (status Status, consumed int, need Need, literalSize int64, resume *Cursor, derr *DecodeError) {
	s := newScanner(cur.Data, cur.Acked, opts)
	err := parse(s)
	if err == nil {
		return Complete, s.pos, Need{}, 0, nil, nil
	}
	if c, ok := err.(*ctrl); ok {
		if c.kind == ctrlLiteralAck {
			return LiteralAckRequired, 0, Need{}, c.literalSize, &Cursor{Data: cur.Data, Acked: cur.Acked + 1}, nil
		}
		return Incomplete, 0, c.need, 0, nil, nil
	}
	de, _ := err.(*DecodeError)
	if de == nil {
		de = newErr(s.pos, GrammarViolation, "%v", err)
	}
	return Failed, 0, Need{}, 0, nil, de
}

// DecodeGreeting decodes the server's initial unsolicited greeting.
func DecodeGreeting(cur Cursor, opts Options) GreetingResult {
	var val imap.Greeting
	status, consumed, need, litSize, resume, derr := decodeAttempt(cur, opts, func(s *scanner) error {
		v, err := parseGreeting(s)
		if err != nil {
			return err
		}
		val = v
		return nil
	})
	res := GreetingResult{Status: status, Need: need, LiteralSize: litSize, Resume: resume, Err: derr}
	if status == Complete {
		res.Value = val
		res.Residual = cur.Data[consumed:]
	}
	return res
}

// DecodeCommand decodes one client command line.
func DecodeCommand(cur Cursor, opts Options) CommandResult {
	var val imap.Command
	status, consumed, need, litSize, resume, derr := decodeAttempt(cur, opts, func(s *scanner) error {
		v, err := parseCommand(s)
		if err != nil {
			return err
		}
		val = v
		return nil
	})
	res := CommandResult{Status: status, Need: need, LiteralSize: litSize, Resume: resume, Err: derr}
	if status == Complete {
		res.Value = val
		res.Residual = cur.Data[consumed:]
	}
	return res
}

// DecodeResponse decodes one server response line (status response,
// untagged data, or continuation request).
func DecodeResponse(cur Cursor, opts Options) ResponseResult {
	var val imap.Response
	status, consumed, need, litSize, resume, derr := decodeAttempt(cur, opts, func(s *scanner) error {
		v, err := parseResponse(s)
		if err != nil {
			return err
		}
		val = v
		return nil
	})
	res := ResponseResult{Status: status, Need: need, LiteralSize: litSize, Resume: resume, Err: derr}
	if status == Complete {
		res.Value = val
		res.Residual = cur.Data[consumed:]
	}
	return res
}

// DecodeAuthenticateData decodes one line of the client side of a SASL
// exchange: a base64 blob or the "*" cancellation marker.
func DecodeAuthenticateData(cur Cursor, opts Options) AuthDataResult {
	var val imap.AuthenticateData
	status, consumed, need, litSize, resume, derr := decodeAttempt(cur, opts, func(s *scanner) error {
		v, err := parseAuthenticateData(s)
		if err != nil {
			return err
		}
		val = v
		return nil
	})
	res := AuthDataResult{Status: status, Need: need, LiteralSize: litSize, Resume: resume, Err: derr}
	if status == Complete {
		res.Value = val
		res.Residual = cur.Data[consumed:]
	}
	return res
}
