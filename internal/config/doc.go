// Package config handles configuration file parsing and validation for nlmgr.
//
// The configuration file is TOML and covers three areas:
//   - Netlink session tuning (buffer size, poll timeout, batching budget)
//   - Per-group frame tracing with a templated trace line
//   - The read-only HTTP API (enabled flag, listen address)
//
// Missing sections and fields fall back to reference defaults, so an empty
// file is a valid configuration. Validation runs after defaults are applied
// and reports every violated constraint with its TOML field name.
//
// # Example Usage
//
//	cfg, err := config.LoadConfig("/etc/nlmgr/nlmgr.conf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
