package client

import (
	"errors"
	"fmt"
)

// ErrorKind classifies transport failures.
type ErrorKind int

const (
	// NetworkUnreachable means the connection could not be established or
	// timed out.
	NetworkUnreachable ErrorKind = iota
	// ProtocolError means the device answered with a non-2xx status or an
	// undecodable body.
	ProtocolError
	// InvalidEndpoint means the host/port failed validation before any
	// request was issued.
	InvalidEndpoint
)

var kindNames = map[ErrorKind]string{
	NetworkUnreachable: "network unreachable",
	ProtocolError:      "protocol error",
	InvalidEndpoint:    "invalid endpoint",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// TransportError is the uniform failure type surfaced by the client.
type TransportError struct {
	Kind ErrorKind
	Op   string // e.g. "GET /api/status"
	Err  error
}

func (e *TransportError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// KindOf returns the transport error kind for err, or ok=false if err is not
// a TransportError.
func KindOf(err error) (ErrorKind, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Kind, true
	}
	return 0, false
}
