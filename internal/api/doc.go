// Package api provides the read-only REST API server for nlmgr.
//
// The server exposes current kernel networking state over HTTP:
//   - GET /api/v1/links: all interfaces
//   - GET /api/v1/links/{link_name}: one interface by name
//   - GET /api/v1/addresses: interface addresses
//   - GET /api/v1/neighbors: the neighbor cache
//   - GET /api/v1/routes: routes
//   - GET /api/v1/health: liveness probe
//
// The address, neighbor and route endpoints accept an optional
// ?family=4|6|all query parameter.
//
// # Response Format
//
// All successful responses wrap data in a "data" field:
//
//	{
//	  "data": [ /* response payload */ ]
//	}
//
// Error responses use the following format:
//
//	{
//	  "error": {
//	    "code": "error_code",
//	    "message": "Human-readable error message"
//	  }
//	}
//
// # Concurrency
//
// The netlink session behind the handlers accepts one outstanding request at
// a time, so all handlers share one Inspector that serializes queries with a
// mutex. Requests queue behind each other rather than failing.
package api
