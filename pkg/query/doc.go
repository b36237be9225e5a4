// Package query provides the request/response layer for service discovery
// queries.
//
// The Client assigns each outbound request a unique identifier at send
// time, hands the request to a pluggable Sender (the stanza transport,
// which is outside this module), and correlates the eventual result or
// error response back to the waiting caller. Responses for requests that
// are no longer pending - a timed-out probe that answers late, for example
// - are reported as unexpected and otherwise ignored.
//
// The Client never touches raw wire bytes: the transport delivers parsed
// results via HandleResult and HandleError.
package query
