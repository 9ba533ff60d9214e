package protocol

import "errors"

// Failure classes for the wire layer. Callers branch with errors.Is: a
// transport or framing failure ends the session, a decode failure means
// the peer sent a frame we cannot trust, and an invalid command is
// rejected while the session keeps running on the previous intent.
var (
	ErrTransport      = errors.New("protocol: transport failure")
	ErrFraming        = errors.New("protocol: broken frame envelope")
	ErrDecode         = errors.New("protocol: malformed payload")
	ErrInvalidCommand = errors.New("protocol: invalid command")
)

// ErrSessionEnd reports the all-zeros size header, which the server sends
// in place of a frame when the hero dies. No payload and no reply follow.
var ErrSessionEnd = errors.New("protocol: session ended by server")
