// Package framing provides stateless strategies for splitting a TCP byte
// stream into discrete application messages: a header-prefixed
// variable-length framer and a delimiter-based text framer.
package framing
