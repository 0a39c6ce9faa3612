package rtnl

import (
	"github.com/rtkit/nlmgr/internal/errors"
	"github.com/rtkit/nlmgr/internal/nl"
)

// Request is one logical rtnetlink request: message type, flag bitset,
// family, a fixed-size service header and an attribute map. Build encodes it
// into a frozen byte buffer stamped with sequence and pid; a built request is
// never mutated again.
type Request struct {
	msgType uint16
	flags   uint16
	family  uint8
	body    []byte
	attrs   AttrMap

	buf []byte
	seq uint32
	pid uint32
}

// NewRequest creates an empty request for the given message type, flags and
// address family.
func NewRequest(msgType, flags uint16, family uint8) *Request {
	return &Request{
		msgType: msgType,
		flags:   flags,
		family:  family,
		attrs:   make(AttrMap),
	}
}

// SetBody sets the fixed-size service header payload.
func (r *Request) SetBody(body []byte) {
	r.body = body
}

// AddAttr records an attribute value. Keys are unique; a repeated type
// overwrites the earlier value.
func (r *Request) AddAttr(atype uint16, value interface{}) {
	r.attrs[atype] = value
}

// Family returns the address family the request was created with.
func (r *Request) Family() uint8 {
	return r.family
}

// Build encodes the request into its wire form, stamping seq and pid into
// the header. Calling Build twice is a programming error.
func (r *Request) Build(seq, pid uint32) error {
	if r.Built() {
		return errors.NewInternalError("request already built", nil)
	}
	encoded, err := encodeAttrs(r.attrs)
	if err != nil {
		return err
	}

	total := nl.HeaderLen + len(r.body) + len(encoded)
	buf := make([]byte, nl.Align(total))
	nl.Header{
		Length: uint32(total),
		Type:   r.msgType,
		Flags:  r.flags,
		Seq:    seq,
		PID:    pid,
	}.Marshal(buf)
	copy(buf[nl.HeaderLen:], r.body)
	copy(buf[nl.HeaderLen+len(r.body):], encoded)

	r.buf = buf
	r.seq = seq
	r.pid = pid
	return nil
}

// MsgType implements nl.Request.
func (r *Request) MsgType() uint16 { return r.msgType }

// Built implements nl.Request.
func (r *Request) Built() bool { return len(r.buf) > 0 }

// Buffer implements nl.Request.
func (r *Request) Buffer() []byte { return r.buf }

// Seq implements nl.Request.
func (r *Request) Seq() uint32 { return r.seq }

// PID returns the process identity stamped at build time.
func (r *Request) PID() uint32 { return r.pid }
