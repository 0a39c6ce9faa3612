// Package commands implements CLI command handlers for nlmgr.
//
// Each subcommand implements the Runner interface:
//   - Init(): Parse arguments and validate configuration
//   - Run(): Execute the command against a fresh netlink session
//   - Name(): Return command name for routing
//
// # Available Commands
//
//   - links, addresses, neighbors, routes: dump kernel state
//   - link-set: change administrative state or protodown
//   - vlan-add, macvlan-add: create virtual sub-interfaces
//   - bridge-vlan: manage bridge port VLAN membership
//   - neigh: add or delete neighbor cache entries
//   - route: add, delete or resolve routes
//   - serve: run the read-only HTTP API
//
// Commands are thin wrappers: parsing and validation happen in Init, the
// actual netlink work is delegated to rtnl.Manager.
package commands
