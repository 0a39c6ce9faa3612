package rtnl

import (
	"encoding/binary"
	"net"

	"github.com/rtkit/nlmgr/internal/errors"
	"github.com/rtkit/nlmgr/internal/nl"
)

const sizeofNdmsg = 12

// marshalNdmsg renders struct ndmsg: family, pad, ifindex, state, flags,
// type.
func marshalNdmsg(family uint8, ifindex int32, state uint16, ndFlags, ndType uint8) []byte {
	b := make([]byte, sizeofNdmsg)
	b[0] = family
	binary.NativeEndian.PutUint32(b[4:8], uint32(ifindex))
	binary.NativeEndian.PutUint16(b[8:10], state)
	b[10] = ndFlags
	b[11] = ndType
	return b
}

// Neighbor is a decoded RTM_NEWNEIGH or RTM_DELNEIGH frame.
type Neighbor struct {
	mtype   uint16
	Family  uint8
	Ifindex int32
	State   uint16
	NdFlags uint8
	NdType  uint8
	Attrs   AttrTable
}

// MsgType implements nl.Message.
func (n *Neighbor) MsgType() uint16 { return n.mtype }

// IP returns the neighbor's protocol address, nil if absent.
func (n *Neighbor) IP() net.IP {
	ip, _ := n.Attrs.IP(NDA_DST)
	return ip
}

// LLAddr returns the neighbor's link-layer address, nil if absent.
func (n *Neighbor) LLAddr() net.HardwareAddr {
	hw, _ := n.Attrs.HardwareAddr(NDA_LLADDR)
	return hw
}

func decodeNeighbor(h nl.Header, payload []byte) (nl.Message, error) {
	if len(payload) < sizeofNdmsg {
		return nil, errors.NewProtocolError("truncated ndmsg", nil)
	}
	attrs, err := parseAttrs(payload[sizeofNdmsg:])
	if err != nil {
		return nil, err
	}
	return &Neighbor{
		mtype:   h.Type,
		Family:  payload[0],
		Ifindex: int32(binary.NativeEndian.Uint32(payload[4:8])),
		State:   binary.NativeEndian.Uint16(payload[8:10]),
		NdFlags: payload[10],
		NdType:  payload[11],
		Attrs:   attrs,
	}, nil
}
