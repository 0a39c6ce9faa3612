package rtnl

import (
	"encoding/binary"
	"net"
	"testing"

	"github.com/rtkit/nlmgr/internal/errors"
)

func TestEncodeAttr_Alignment(t *testing.T) {
	tests := []struct {
		name    string
		atype   uint16
		value   interface{}
		wantLen uint16
		wantBuf int
	}{
		{"uint8 pads to 8", IFLA_PROTO_DOWN, uint8(1), 5, 8},
		{"uint16 pads to 8", IFLA_VLAN_ID, uint16(100), 6, 8},
		{"uint32 is already aligned", IFLA_LINK, uint32(3), 8, 8},
		{"string includes NUL and pads", IFLA_IFNAME, "eth0", 9, 12},
		{"ipv4 is already aligned", RTA_GATEWAY, net.ParseIP("10.0.0.1"), 8, 8},
		{"ipv6 is already aligned", RTA_GATEWAY, net.ParseIP("fe80::1"), 20, 20},
		{"lladdr pads to 12", NDA_LLADDR, net.HardwareAddr{2, 0, 0, 0xaa, 0xbb, 0xcc}, 10, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := encodeAttr(tt.atype, tt.value)
			if err != nil {
				t.Fatalf("encodeAttr() error = %v", err)
			}
			if got := binary.NativeEndian.Uint16(b[0:2]); got != tt.wantLen {
				t.Errorf("declared length = %d, want %d", got, tt.wantLen)
			}
			if got := binary.NativeEndian.Uint16(b[2:4]); got != tt.atype {
				t.Errorf("type = %d, want %d", got, tt.atype)
			}
			if len(b) != tt.wantBuf {
				t.Errorf("encoded length = %d, want %d", len(b), tt.wantBuf)
			}
		})
	}
}

func TestEncodeAttr_IPv4InIPv6Form(t *testing.T) {
	// ParseIP stores dotted quads in 16 bytes; on the wire they must be 4.
	b, err := encodeAttr(RTA_DST, net.ParseIP("192.168.1.1"))
	if err != nil {
		t.Fatalf("encodeAttr() error = %v", err)
	}
	if got := binary.NativeEndian.Uint16(b[0:2]); got != attrHeaderLen+net.IPv4len {
		t.Errorf("declared length = %d, want %d", got, attrHeaderLen+net.IPv4len)
	}
}

func TestEncodeAttr_UnsupportedType(t *testing.T) {
	_, err := encodeAttr(IFLA_IFNAME, 3.14)
	if !errors.HasCode(err, errors.ErrCodeInternal) {
		t.Fatalf("encodeAttr() error = %v, want INTERNAL_ERROR", err)
	}
}

func TestEncodeAttrs_RoundTrip(t *testing.T) {
	in := AttrMap{
		IFLA_IFNAME: "swp1",
		IFLA_LINK:   int32(4),
	}
	b, err := encodeAttrs(in)
	if err != nil {
		t.Fatalf("encodeAttrs() error = %v", err)
	}

	tab, err := parseAttrs(b)
	if err != nil {
		t.Fatalf("parseAttrs() error = %v", err)
	}
	if got, _ := tab.String(IFLA_IFNAME); got != "swp1" {
		t.Errorf("IFLA_IFNAME = %q, want swp1", got)
	}
	if got, _ := tab.Uint32(IFLA_LINK); got != 4 {
		t.Errorf("IFLA_LINK = %d, want 4", got)
	}
}

func TestEncodeAttrs_Nested(t *testing.T) {
	b, err := encodeAttrs(AttrMap{
		IFLA_LINKINFO: AttrMap{
			IFLA_INFO_KIND: "vlan",
			IFLA_INFO_DATA: AttrMap{IFLA_VLAN_ID: uint16(7)},
		},
	})
	if err != nil {
		t.Fatalf("encodeAttrs() error = %v", err)
	}

	outer, err := parseAttrs(b)
	if err != nil {
		t.Fatalf("parseAttrs() error = %v", err)
	}
	raw, ok := outer.Bytes(IFLA_LINKINFO)
	if !ok {
		t.Fatal("IFLA_LINKINFO is missing")
	}
	inner, err := parseAttrs(raw)
	if err != nil {
		t.Fatalf("parseAttrs(nested) error = %v", err)
	}
	if got, _ := inner.String(IFLA_INFO_KIND); got != "vlan" {
		t.Errorf("IFLA_INFO_KIND = %q, want vlan", got)
	}
}

func TestEncodeNextHops(t *testing.T) {
	b, err := encodeNextHops([]NextHop{
		{Ifindex: 2, Gateway: net.ParseIP("10.0.0.1")},
		{Ifindex: 3},
	})
	if err != nil {
		t.Fatalf("encodeNextHops() error = %v", err)
	}

	// First record: 8-byte rtnexthop plus an 8-byte gateway attribute.
	if got := binary.NativeEndian.Uint16(b[0:2]); got != 16 {
		t.Fatalf("first rtnexthop length = %d, want 16", got)
	}
	if got := int32(binary.NativeEndian.Uint32(b[4:8])); got != 2 {
		t.Errorf("first ifindex = %d, want 2", got)
	}
	gw, err := parseAttrs(b[8:16])
	if err != nil {
		t.Fatalf("parseAttrs(gateway) error = %v", err)
	}
	if got, _ := gw.IP(RTA_GATEWAY); !got.Equal(net.ParseIP("10.0.0.1")) {
		t.Errorf("gateway = %v, want 10.0.0.1", got)
	}

	// Second record carries no nested attributes.
	if got := binary.NativeEndian.Uint16(b[16:18]); got != 8 {
		t.Errorf("second rtnexthop length = %d, want 8", got)
	}
	if len(b) != 24 {
		t.Errorf("payload length = %d, want 24", len(b))
	}
}

func TestParseAttrs_Malformed(t *testing.T) {
	tests := []struct {
		name string
		b    []byte
	}{
		{"length below header", []byte{2, 0, 1, 0}},
		{"length beyond buffer", []byte{200, 0, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseAttrs(tt.b)
			if !errors.HasCode(err, errors.ErrCodeProtocol) {
				t.Fatalf("parseAttrs() error = %v, want PROTOCOL_ERROR", err)
			}
		})
	}
}

func TestParseAttrs_TrailingPaddingIgnored(t *testing.T) {
	b, err := encodeAttr(IFLA_IFNAME, "lo")
	if err != nil {
		t.Fatalf("encodeAttr() error = %v", err)
	}
	// A short trailing fragment smaller than an attribute header is padding.
	b = append(b, 0, 0)

	tab, err := parseAttrs(b)
	if err != nil {
		t.Fatalf("parseAttrs() error = %v", err)
	}
	if got, _ := tab.String(IFLA_IFNAME); got != "lo" {
		t.Errorf("IFLA_IFNAME = %q, want lo", got)
	}
}
