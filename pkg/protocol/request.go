// Package protocol implements the line protocol spoken between the editor
// and the helper server: request framing, per-request options and reply
// formatting.
package protocol

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// PayloadPGN is the only payload type the server understands.
const PayloadPGN = ":pgn"

var (
	// ErrMalformedRequest is returned for lines that do not match the
	// request grammar.
	ErrMalformedRequest = errors.New("malformed request")
	// ErrUnknownPayloadType is returned when the payload type is not :pgn.
	ErrUnknownPayloadType = errors.New("unknown payload type")
)

// :command options -- :payload-type payload
var requestPattern = regexp.MustCompile(`(:\S+)(.*?)\s+--\s+(:\S+)\s+(\S.*)\n`)

// Request is one parsed request line.
type Request struct {
	Command     string
	RawOptions  string
	PayloadType string
	Payload     string
}

// IsKeepAlive reports whether line is an empty keep-alive line.
func IsKeepAlive(line string) bool {
	return line == "\n" || line == "\r\n"
}

// ParseRequest extracts the request fields from one newline-terminated line.
// The payload type is returned as-is; see CheckPayloadType.
func ParseRequest(line string) (*Request, error) {
	m := requestPattern.FindStringSubmatch(line)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedRequest, line)
	}
	return &Request{
		Command:     m[1],
		RawOptions:  m[2],
		PayloadType: m[3],
		Payload:     strings.TrimSuffix(m[4], "\r"),
	}, nil
}

// CheckPayloadType rejects requests whose payload is not PGN.
func (r *Request) CheckPayloadType() error {
	if r.PayloadType != PayloadPGN {
		return fmt.Errorf("%w: %s", ErrUnknownPayloadType, r.PayloadType)
	}
	return nil
}

// Reply formats a reply line body, e.g. Reply(":fen", fen).
func Reply(kind, body string) string {
	return kind + " " + body
}
