package nl

// Request is a built netlink request as the session engine sees it. The rtnl
// package owns the actual encoding (service headers and attributes); the
// engine only needs the frozen buffer and the stamped sequence number.
type Request interface {
	// MsgType returns the numeric rtnetlink message type.
	MsgType() uint16
	// Built reports whether the request has been encoded and stamped.
	Built() bool
	// Buffer returns the encoded frame, empty until built.
	Buffer() []byte
	// Seq returns the sequence number stamped at build time.
	Seq() uint32
}

// Message is a decoded data frame.
type Message interface {
	MsgType() uint16
}

// Decoder turns one frame's payload (the bytes after the 16-byte header) into
// a typed message.
type Decoder func(h Header, payload []byte) (Message, error)

// DecoderMap selects a Decoder purely by the numeric wire type of a frame.
type DecoderMap map[uint16]Decoder
