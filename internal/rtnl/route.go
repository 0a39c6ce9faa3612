package rtnl

import (
	"encoding/binary"
	"net"

	"github.com/rtkit/nlmgr/internal/errors"
	"github.com/rtkit/nlmgr/internal/nl"
)

const sizeofRtmsg = 12

// marshalRtmsg renders struct rtmsg: family, dst_len, src_len, tos, table,
// protocol, scope, type, flags.
func marshalRtmsg(family, dstLen, srcLen, tos, table, protocol, scope, rtype uint8, flags uint32) []byte {
	b := make([]byte, sizeofRtmsg)
	b[0] = family
	b[1] = dstLen
	b[2] = srcLen
	b[3] = tos
	b[4] = table
	b[5] = protocol
	b[6] = scope
	b[7] = rtype
	binary.NativeEndian.PutUint32(b[8:12], flags)
	return b
}

// Route is a decoded RTM_NEWROUTE or RTM_DELROUTE frame.
type Route struct {
	mtype     uint16
	Family    uint8
	DstLen    uint8
	SrcLen    uint8
	Tos       uint8
	Table     uint8
	Protocol  uint8
	Scope     uint8
	RouteType uint8
	RtFlags   uint32
	Attrs     AttrTable
}

// MsgType implements nl.Message.
func (r *Route) MsgType() uint16 { return r.mtype }

// Dst returns the destination prefix address, nil for default routes.
func (r *Route) Dst() net.IP {
	ip, _ := r.Attrs.IP(RTA_DST)
	return ip
}

// Gateway returns the next-hop gateway, nil if the route has none.
func (r *Route) Gateway() net.IP {
	ip, _ := r.Attrs.IP(RTA_GATEWAY)
	return ip
}

// OIF returns the output interface index, 0 if absent.
func (r *Route) OIF() int32 {
	v, _ := r.Attrs.Uint32(RTA_OIF)
	return int32(v)
}

func decodeRoute(h nl.Header, payload []byte) (nl.Message, error) {
	if len(payload) < sizeofRtmsg {
		return nil, errors.NewProtocolError("truncated rtmsg", nil)
	}
	attrs, err := parseAttrs(payload[sizeofRtmsg:])
	if err != nil {
		return nil, err
	}
	return &Route{
		mtype:     h.Type,
		Family:    payload[0],
		DstLen:    payload[1],
		SrcLen:    payload[2],
		Tos:       payload[3],
		Table:     payload[4],
		Protocol:  payload[5],
		Scope:     payload[6],
		RouteType: payload[7],
		RtFlags:   binary.NativeEndian.Uint32(payload[8:12]),
		Attrs:     attrs,
	}, nil
}
