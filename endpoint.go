package netio

import "net"

// Endpoint is a transport-specific address, opaque and value-typed. Two
// Endpoints are equal iff their normalized string forms match.
type Endpoint struct {
	network string // "tcp" or "udp"
	addr    string
}

// NewEndpoint wraps a net.Addr as an Endpoint.
func NewEndpoint(a net.Addr) Endpoint {
	if a == nil {
		return Endpoint{}
	}
	return Endpoint{network: a.Network(), addr: a.String()}
}

// Network returns "tcp", "udp", or "" for the zero Endpoint.
func (e Endpoint) Network() string {
	return e.network
}

// String returns the endpoint in "network://address" form, or "" for
// the zero Endpoint.
func (e Endpoint) String() string {
	if e.network == "" && e.addr == "" {
		return ""
	}
	return e.network + "://" + e.addr
}

// IsZero reports whether this is the zero-value Endpoint.
func (e Endpoint) IsZero() bool {
	return e.network == "" && e.addr == ""
}
