package nl

import (
	"encoding/binary"

	"github.com/rtkit/nlmgr/internal/errors"
)

// HeaderLen is the length of a netlink message header (struct nlmsghdr).
const HeaderLen = 16

// Header is the fixed 16-byte netlink frame header. Its wire layout must
// match the kernel's struct nlmsghdr exactly: length, type, flags, sequence
// and pid, all in native byte order.
type Header struct {
	Length uint32
	Type   uint16
	Flags  uint16
	Seq    uint32
	PID    uint32
}

// Marshal writes the header into the first HeaderLen bytes of b.
func (h Header) Marshal(b []byte) {
	binary.NativeEndian.PutUint32(b[0:4], h.Length)
	binary.NativeEndian.PutUint16(b[4:6], h.Type)
	binary.NativeEndian.PutUint16(b[6:8], h.Flags)
	binary.NativeEndian.PutUint32(b[8:12], h.Seq)
	binary.NativeEndian.PutUint32(b[12:16], h.PID)
}

// ParseHeader reads a header from the start of b.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderLen {
		return Header{}, errors.NewProtocolError("short netlink frame", nil)
	}
	return Header{
		Length: binary.NativeEndian.Uint32(b[0:4]),
		Type:   binary.NativeEndian.Uint16(b[4:6]),
		Flags:  binary.NativeEndian.Uint16(b[6:8]),
		Seq:    binary.NativeEndian.Uint32(b[8:12]),
		PID:    binary.NativeEndian.Uint32(b[12:16]),
	}, nil
}

// Align rounds n up to the netlink 4-byte message boundary.
func Align(n int) int {
	return (n + 3) & ^3
}
