// Package log provides simple leveled logging for nlmgr.
//
// This package implements a lightweight logging system with colored output
// and support for different log levels: DEBUG, INFO, WARN, and ERROR.
// Debug output is gated behind a verbosity switch so that per-frame netlink
// tracing stays silent unless explicitly requested.
//
// # Example Usage
//
//	log.Infof("TXed RTM_GETLINK, seq %d", seq)
//	log.Warnf("socket was not readable for %d attempts", n)
//
//	log.SetVerbose(true)
//	log.Debugf("RXed foreign frame pid=%d seq=%d", pid, seq)
package log
