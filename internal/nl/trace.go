package nl

import (
	"fmt"
	"strconv"

	"github.com/valyala/fasttemplate"
	"golang.org/x/sys/unix"

	"github.com/rtkit/nlmgr/internal/log"
)

var typeNames = map[uint16]string{
	unix.NLMSG_NOOP:    "NLMSG_NOOP",
	unix.NLMSG_ERROR:   "NLMSG_ERROR",
	unix.NLMSG_DONE:    "NLMSG_DONE",
	unix.NLMSG_OVERRUN: "NLMSG_OVERRUN",
	unix.RTM_NEWLINK:   "RTM_NEWLINK",
	unix.RTM_DELLINK:   "RTM_DELLINK",
	unix.RTM_GETLINK:   "RTM_GETLINK",
	unix.RTM_SETLINK:   "RTM_SETLINK",
	unix.RTM_NEWADDR:   "RTM_NEWADDR",
	unix.RTM_DELADDR:   "RTM_DELADDR",
	unix.RTM_GETADDR:   "RTM_GETADDR",
	unix.RTM_NEWNEIGH:  "RTM_NEWNEIGH",
	unix.RTM_DELNEIGH:  "RTM_DELNEIGH",
	unix.RTM_GETNEIGH:  "RTM_GETNEIGH",
	unix.RTM_NEWROUTE:  "RTM_NEWROUTE",
	unix.RTM_DELROUTE:  "RTM_DELROUTE",
	unix.RTM_GETROUTE:  "RTM_GETROUTE",
}

// TypeString returns the symbolic name of a netlink message type.
func TypeString(t uint16) string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type %d", t)
}

// Tracer is a per-session registry of message types for which verbose
// per-frame tracing is enabled. The trace line is rendered from a
// user-configurable template. Tracing never alters protocol behavior.
type Tracer struct {
	types map[uint16]bool
	tmpl  *fasttemplate.Template
}

// NewTracer creates a tracer with no types enabled. Placeholders understood
// by the line format: {{dir}}, {{type}}, {{pid}}, {{seq}}, {{len}}.
func NewTracer(lineFormat string) *Tracer {
	return &Tracer{
		types: make(map[uint16]bool),
		tmpl:  fasttemplate.New(lineFormat, "{{", "}}"),
	}
}

func (t *Tracer) setClear(types []uint16, enabled bool) {
	for _, x := range types {
		if enabled {
			t.types[x] = true
		} else {
			delete(t.types, x)
		}
	}
}

// TraceLinks toggles tracing for all link message types.
func (t *Tracer) TraceLinks(enabled bool) {
	t.setClear([]uint16{unix.RTM_NEWLINK, unix.RTM_DELLINK, unix.RTM_GETLINK, unix.RTM_SETLINK}, enabled)
}

// TraceAddresses toggles tracing for all address message types.
func (t *Tracer) TraceAddresses(enabled bool) {
	t.setClear([]uint16{unix.RTM_NEWADDR, unix.RTM_DELADDR, unix.RTM_GETADDR}, enabled)
}

// TraceNeighbors toggles tracing for all neighbor message types.
func (t *Tracer) TraceNeighbors(enabled bool) {
	t.setClear([]uint16{unix.RTM_NEWNEIGH, unix.RTM_DELNEIGH, unix.RTM_GETNEIGH}, enabled)
}

// TraceRoutes toggles tracing for all route message types.
func (t *Tracer) TraceRoutes(enabled bool) {
	t.setClear([]uint16{unix.RTM_NEWROUTE, unix.RTM_DELROUTE, unix.RTM_GETROUTE}, enabled)
}

// Enabled reports whether frames of the given type are traced.
func (t *Tracer) Enabled(mtype uint16) bool {
	return t.types[mtype]
}

// Frame emits one trace line for a frame header. dir is "TXed" or "RXed".
func (t *Tracer) Frame(dir string, h Header) {
	if !t.types[h.Type] {
		return
	}
	log.Infof("%s", t.tmpl.ExecuteString(map[string]interface{}{
		"dir":  dir,
		"type": TypeString(h.Type),
		"pid":  strconv.FormatUint(uint64(h.PID), 10),
		"seq":  strconv.FormatUint(uint64(h.Seq), 10),
		"len":  strconv.FormatUint(uint64(h.Length), 10),
	}))
}
