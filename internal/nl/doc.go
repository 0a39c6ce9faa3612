// Package nl implements the netlink session engine for nlmgr.
//
// This package owns the raw NETLINK_ROUTE socket and the wire-level request
// lifecycle: sequence allocation, frame transmission, and the receive loop
// that demultiplexes the kernel's streamed, possibly multi-part responses
// into typed results or errors.
//
// # Architecture
//
//   - Sequence: per-session monotonic counter correlating requests with replies
//   - Socket: lazily created raw netlink socket with bounded polling receive
//   - Session: the request engine; transmits a built request and drains the
//     response stream until a terminal frame (NLMSG_DONE or NLMSG_ERROR)
//   - Batcher: concatenates pre-built requests into budget-bounded chunks for
//     fire-and-forget bulk writes
//   - Tracer: per-session registry of message types with verbose frame tracing
//
// # Concurrency
//
// A Session is strictly synchronous and single-owner: at most one request may
// be outstanding at a time, and interleaving two requests on one socket would
// corrupt sequence matching. Callers that share a session across goroutines
// must serialize the full send/drain cycle externally. The only concurrency
// concession is the shutdown flag, which may be set from a signal handler and
// is checked at the top of every wait iteration.
//
// # Liveness
//
// Receive waits are bounded: each poll times out after a fixed interval and a
// fixed number of consecutive empty polls abandons the wait, returning
// whatever results accumulated so far. Partial dump results produced this way
// are returned as successful data, not as errors. This favors liveness over
// completeness and is a documented limitation of Exchange.
//
// Attribute encoding and the per-family message layouts live in the rtnl
// package; this package sees them only through the Request and Message
// contracts and the decoder table.
package nl
