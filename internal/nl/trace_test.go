package nl

import (
	"testing"

	"golang.org/x/sys/unix"
)

func TestTracer_GroupToggles(t *testing.T) {
	tr := NewTracer("{{dir}} {{type}}")

	tr.TraceLinks(true)
	tr.TraceRoutes(true)

	for _, mtype := range []uint16{unix.RTM_NEWLINK, unix.RTM_DELLINK, unix.RTM_GETLINK, unix.RTM_SETLINK, unix.RTM_NEWROUTE} {
		if !tr.Enabled(mtype) {
			t.Errorf("expected %s to be traced", TypeString(mtype))
		}
	}
	if tr.Enabled(unix.RTM_NEWADDR) || tr.Enabled(unix.RTM_NEWNEIGH) {
		t.Errorf("address and neighbor types must stay untraced")
	}

	tr.TraceLinks(false)
	if tr.Enabled(unix.RTM_NEWLINK) {
		t.Errorf("expected link tracing to be cleared")
	}
	if !tr.Enabled(unix.RTM_NEWROUTE) {
		t.Errorf("route tracing must survive clearing links")
	}
}

func TestTypeString(t *testing.T) {
	tests := []struct {
		mtype uint16
		want  string
	}{
		{unix.NLMSG_DONE, "NLMSG_DONE"},
		{unix.NLMSG_ERROR, "NLMSG_ERROR"},
		{unix.RTM_GETROUTE, "RTM_GETROUTE"},
		{999, "type 999"},
	}
	for _, tt := range tests {
		if got := TypeString(tt.mtype); got != tt.want {
			t.Errorf("TypeString(%d) = %q, want %q", tt.mtype, got, tt.want)
		}
	}
}
