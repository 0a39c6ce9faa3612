package rtnl

import (
	"encoding/binary"

	"golang.org/x/sys/unix"

	"github.com/rtkit/nlmgr/internal/errors"
	"github.com/rtkit/nlmgr/internal/nl"
)

const sizeofIfInfomsg = 16

// marshalIfInfomsg renders struct ifinfomsg: family, pad, type, index,
// flags, change.
func marshalIfInfomsg(family uint8, index int32, flags, change uint32) []byte {
	b := make([]byte, sizeofIfInfomsg)
	b[0] = family
	binary.NativeEndian.PutUint32(b[4:8], uint32(index))
	binary.NativeEndian.PutUint32(b[8:12], flags)
	binary.NativeEndian.PutUint32(b[12:16], change)
	return b
}

// Link is a decoded RTM_NEWLINK or RTM_DELLINK frame.
type Link struct {
	mtype  uint16
	Family uint8
	Index  int32
	Flags  uint32
	Change uint32
	Attrs  AttrTable
}

// MsgType implements nl.Message.
func (l *Link) MsgType() uint16 { return l.mtype }

// Name returns the interface name, empty if the kernel omitted it.
func (l *Link) Name() string {
	s, _ := l.Attrs.String(IFLA_IFNAME)
	return s
}

// Up reports whether the interface is administratively up.
func (l *Link) Up() bool {
	return l.Flags&unix.IFF_UP != 0
}

func decodeLink(h nl.Header, payload []byte) (nl.Message, error) {
	if len(payload) < sizeofIfInfomsg {
		return nil, errors.NewProtocolError("truncated ifinfomsg", nil)
	}
	attrs, err := parseAttrs(payload[sizeofIfInfomsg:])
	if err != nil {
		return nil, err
	}
	return &Link{
		mtype:  h.Type,
		Family: payload[0],
		Index:  int32(binary.NativeEndian.Uint32(payload[4:8])),
		Flags:  binary.NativeEndian.Uint32(payload[8:12]),
		Change: binary.NativeEndian.Uint32(payload[12:16]),
		Attrs:  attrs,
	}, nil
}
