package client

import (
	"fmt"
	"strings"
)

// Endpoint identifies the device's HTTP API address.
type Endpoint struct {
	Host string
	Port int
}

// Validate checks the endpoint before any request is issued.
func (e Endpoint) Validate() error {
	host := strings.TrimSpace(e.Host)
	if host == "" {
		return &TransportError{Kind: InvalidEndpoint, Err: fmt.Errorf("host is empty")}
	}
	if strings.ContainsAny(host, " /") {
		return &TransportError{Kind: InvalidEndpoint, Err: fmt.Errorf("host %q contains invalid characters", host)}
	}
	if e.Port < 1 || e.Port > 65535 {
		return &TransportError{Kind: InvalidEndpoint, Err: fmt.Errorf("port %d out of range 1-65535", e.Port)}
	}
	return nil
}

// BaseURL returns the http base URL for the endpoint.
func (e Endpoint) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", e.Host, e.Port)
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s:%d", e.Host, e.Port)
}
