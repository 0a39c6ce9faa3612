package rtnl

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"net"

	"github.com/rtkit/nlmgr/internal/errors"
)

const (
	attrHeaderLen = 4
	rtaAlignTo    = 4
)

func attrAlign(n int) int {
	return (n + rtaAlignTo - 1) & ^(rtaAlignTo - 1)
}

// AttrMap maps attribute identifiers to values for encoding. Keys are unique
// and wire ordering is irrelevant, so a plain map is sufficient.
type AttrMap map[uint16]interface{}

// BridgeVlanInfo mirrors struct bridge_vlan_info.
type BridgeVlanInfo struct {
	Flags uint16
	VID   uint16
}

// NextHop is one leg of an ECMP route: struct rtnexthop plus an optional
// nested gateway attribute.
type NextHop struct {
	Ifindex int32
	Gateway net.IP
}

// encodeAttrs renders an attribute map as a concatenation of 4-byte-aligned
// rtattr records.
func encodeAttrs(attrs AttrMap) ([]byte, error) {
	var out []byte
	for atype, value := range attrs {
		b, err := encodeAttr(atype, value)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

func encodeAttr(atype uint16, value interface{}) ([]byte, error) {
	var payload []byte

	switch v := value.(type) {
	case uint8:
		payload = []byte{v}
	case uint16:
		payload = make([]byte, 2)
		binary.NativeEndian.PutUint16(payload, v)
	case uint32:
		payload = make([]byte, 4)
		binary.NativeEndian.PutUint32(payload, v)
	case int32:
		payload = make([]byte, 4)
		binary.NativeEndian.PutUint32(payload, uint32(v))
	case int:
		payload = make([]byte, 4)
		binary.NativeEndian.PutUint32(payload, uint32(v))
	case string:
		payload = append([]byte(v), 0)
	case net.IP:
		if v4 := v.To4(); v4 != nil {
			payload = v4
		} else {
			payload = v.To16()
		}
		if payload == nil {
			return nil, errors.NewInternalError(fmt.Sprintf("attribute %d: invalid IP value", atype), nil)
		}
	case net.HardwareAddr:
		payload = v
	case []byte:
		payload = v
	case AttrMap:
		nested, err := encodeAttrs(v)
		if err != nil {
			return nil, err
		}
		payload = nested
	case BridgeVlanInfo:
		payload = make([]byte, 4)
		binary.NativeEndian.PutUint16(payload[0:2], v.Flags)
		binary.NativeEndian.PutUint16(payload[2:4], v.VID)
	case []NextHop:
		hops, err := encodeNextHops(v)
		if err != nil {
			return nil, err
		}
		payload = hops
	default:
		return nil, errors.NewInternalError(
			fmt.Sprintf("attribute %d: unsupported value type %T", atype, value), nil)
	}

	length := attrHeaderLen + len(payload)
	buf := make([]byte, attrAlign(length))
	binary.NativeEndian.PutUint16(buf[0:2], uint16(length))
	binary.NativeEndian.PutUint16(buf[2:4], atype)
	copy(buf[attrHeaderLen:], payload)
	return buf, nil
}

// encodeNextHops renders an RTA_MULTIPATH payload: a run of struct rtnexthop
// records (len, flags, hops, ifindex) each followed by its nested attributes.
func encodeNextHops(hops []NextHop) ([]byte, error) {
	var out []byte
	for _, nh := range hops {
		var gw []byte
		if nh.Gateway != nil {
			a, err := encodeAttr(RTA_GATEWAY, nh.Gateway)
			if err != nil {
				return nil, err
			}
			gw = a
		}
		b := make([]byte, 8+len(gw))
		binary.NativeEndian.PutUint16(b[0:2], uint16(len(b)))
		binary.NativeEndian.PutUint32(b[4:8], uint32(nh.Ifindex))
		copy(b[8:], gw)
		out = append(out, b...)
	}
	return out, nil
}

// AttrTable holds one decoded frame's attributes keyed by identifier.
type AttrTable map[uint16][]byte

// parseAttrs walks a run of rtattr records into a table. Nested trees are
// left as raw bytes; callers that need them re-parse the value.
func parseAttrs(b []byte) (AttrTable, error) {
	tab := make(AttrTable)
	for len(b) >= attrHeaderLen {
		alen := int(binary.NativeEndian.Uint16(b[0:2]))
		atype := binary.NativeEndian.Uint16(b[2:4])
		if alen < attrHeaderLen || alen > len(b) {
			return nil, errors.NewProtocolError(
				fmt.Sprintf("malformed attribute: declared length %d, %d bytes available", alen, len(b)), nil)
		}
		tab[atype] = b[attrHeaderLen:alen]
		step := attrAlign(alen)
		if step >= len(b) {
			break
		}
		b = b[step:]
	}
	return tab, nil
}

// Has reports whether the attribute is present.
func (t AttrTable) Has(atype uint16) bool {
	_, ok := t[atype]
	return ok
}

// Bytes returns the raw attribute value.
func (t AttrTable) Bytes(atype uint16) ([]byte, bool) {
	v, ok := t[atype]
	return v, ok
}

// Uint32 reads a native-order 32-bit attribute value.
func (t AttrTable) Uint32(atype uint16) (uint32, bool) {
	v, ok := t[atype]
	if !ok || len(v) < 4 {
		return 0, false
	}
	return binary.NativeEndian.Uint32(v[0:4]), true
}

// String reads a NUL-terminated string attribute value.
func (t AttrTable) String(atype uint16) (string, bool) {
	v, ok := t[atype]
	if !ok {
		return "", false
	}
	if i := bytes.IndexByte(v, 0); i >= 0 {
		v = v[:i]
	}
	return string(v), true
}

// IP reads a 4- or 16-byte address attribute value.
func (t AttrTable) IP(atype uint16) (net.IP, bool) {
	v, ok := t[atype]
	if !ok || (len(v) != net.IPv4len && len(v) != net.IPv6len) {
		return nil, false
	}
	return net.IP(append([]byte(nil), v...)), true
}

// HardwareAddr reads a link-layer address attribute value.
func (t AttrTable) HardwareAddr(atype uint16) (net.HardwareAddr, bool) {
	v, ok := t[atype]
	if !ok || len(v) == 0 {
		return nil, false
	}
	return net.HardwareAddr(append([]byte(nil), v...)), true
}
