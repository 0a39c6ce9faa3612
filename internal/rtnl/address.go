package rtnl

import (
	"encoding/binary"
	"net"

	"github.com/rtkit/nlmgr/internal/errors"
	"github.com/rtkit/nlmgr/internal/nl"
)

const sizeofIfAddrmsg = 8

// marshalIfAddrmsg renders struct ifaddrmsg: family, prefixlen, flags,
// scope, index.
func marshalIfAddrmsg(family, prefixLen, flags, scope uint8, index int32) []byte {
	b := make([]byte, sizeofIfAddrmsg)
	b[0] = family
	b[1] = prefixLen
	b[2] = flags
	b[3] = scope
	binary.NativeEndian.PutUint32(b[4:8], uint32(index))
	return b
}

// Address is a decoded RTM_NEWADDR or RTM_DELADDR frame.
type Address struct {
	mtype     uint16
	Family    uint8
	PrefixLen uint8
	AddrFlags uint8
	Scope     uint8
	Index     int32
	Attrs     AttrTable
}

// MsgType implements nl.Message.
func (a *Address) MsgType() uint16 { return a.mtype }

// IP returns the address value, preferring IFA_LOCAL over IFA_ADDRESS the
// way ip(8) reports it.
func (a *Address) IP() net.IP {
	if ip, ok := a.Attrs.IP(IFA_LOCAL); ok {
		return ip
	}
	ip, _ := a.Attrs.IP(IFA_ADDRESS)
	return ip
}

// Label returns the interface label, empty if absent.
func (a *Address) Label() string {
	s, _ := a.Attrs.String(IFA_LABEL)
	return s
}

func decodeAddress(h nl.Header, payload []byte) (nl.Message, error) {
	if len(payload) < sizeofIfAddrmsg {
		return nil, errors.NewProtocolError("truncated ifaddrmsg", nil)
	}
	attrs, err := parseAttrs(payload[sizeofIfAddrmsg:])
	if err != nil {
		return nil, err
	}
	return &Address{
		mtype:     h.Type,
		Family:    payload[0],
		PrefixLen: payload[1],
		AddrFlags: payload[2],
		Scope:     payload[3],
		Index:     int32(binary.NativeEndian.Uint32(payload[4:8])),
		Attrs:     attrs,
	}, nil
}
