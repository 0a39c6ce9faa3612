package rtnl

import (
	"testing"

	"golang.org/x/sys/unix"

	"github.com/rtkit/nlmgr/internal/errors"
	"github.com/rtkit/nlmgr/internal/nl"
)

func TestRequest_Build(t *testing.T) {
	req := NewRequest(unix.RTM_NEWLINK, unix.NLM_F_REQUEST|unix.NLM_F_CREATE, unix.AF_UNSPEC)
	req.SetBody(marshalIfInfomsg(unix.AF_UNSPEC, 0, 0, 0))
	req.AddAttr(IFLA_IFNAME, "vlan100")

	if req.Built() {
		t.Fatal("Built() = true before Build()")
	}
	if err := req.Build(42, 1234); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !req.Built() {
		t.Fatal("Built() = false after Build()")
	}

	h, err := nl.ParseHeader(req.Buffer())
	if err != nil {
		t.Fatalf("ParseHeader() error = %v", err)
	}
	if h.Type != unix.RTM_NEWLINK {
		t.Errorf("Type = %s, want RTM_NEWLINK", nl.TypeString(h.Type))
	}
	if h.Flags != unix.NLM_F_REQUEST|unix.NLM_F_CREATE {
		t.Errorf("Flags = %#x, want REQUEST|CREATE", h.Flags)
	}
	if h.Seq != 42 || h.PID != 1234 {
		t.Errorf("Seq, PID = %d, %d, want 42, 1234", h.Seq, h.PID)
	}
	if req.Seq() != 42 || req.PID() != 1234 {
		t.Errorf("Seq(), PID() = %d, %d, want 42, 1234", req.Seq(), req.PID())
	}

	// Declared length counts header, body and attributes; the buffer itself
	// is padded out to the 4-byte boundary.
	wantLen := nl.HeaderLen + sizeofIfInfomsg + attrHeaderLen + len("vlan100") + 1
	if int(h.Length) != wantLen {
		t.Errorf("Length = %d, want %d", h.Length, wantLen)
	}
	if len(req.Buffer()) != nl.Align(wantLen) {
		t.Errorf("buffer length = %d, want %d", len(req.Buffer()), nl.Align(wantLen))
	}
}

func TestRequest_BuildTwice(t *testing.T) {
	req := NewRequest(unix.RTM_GETLINK, unix.NLM_F_REQUEST, unix.AF_UNSPEC)
	req.SetBody(marshalIfInfomsg(unix.AF_UNSPEC, 0, 0, 0))

	if err := req.Build(1, 1); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	err := req.Build(2, 1)
	if !errors.HasCode(err, errors.ErrCodeInternal) {
		t.Fatalf("second Build() error = %v, want INTERNAL_ERROR", err)
	}
	h, _ := nl.ParseHeader(req.Buffer())
	if h.Seq != 1 {
		t.Errorf("Seq = %d after rejected rebuild, want 1", h.Seq)
	}
}

func TestRequest_BadAttrFailsBuild(t *testing.T) {
	req := NewRequest(unix.RTM_NEWLINK, unix.NLM_F_REQUEST, unix.AF_UNSPEC)
	req.AddAttr(IFLA_IFNAME, struct{}{})

	err := req.Build(1, 1)
	if !errors.HasCode(err, errors.ErrCodeInternal) {
		t.Fatalf("Build() error = %v, want INTERNAL_ERROR", err)
	}
	if req.Built() {
		t.Error("Built() = true after failed Build()")
	}
}
