package nl

import (
	"encoding/binary"
	goerrors "errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"

	"github.com/rtkit/nlmgr/internal/errors"
	"github.com/rtkit/nlmgr/internal/log"
)

// noAddressCode is the distinguished "no matching entry" kernel error code
// (ENODEV / libnl NLE_NOADDR). It is surfaced as NO_ADDRESS so callers can
// treat absence as a routine outcome.
const noAddressCode = 19

// Config tunes the receive loop and batching behavior of a Session.
type Config struct {
	// ReceiveBuffer is the size of one receive chunk in bytes.
	ReceiveBuffer int
	// ReceiveTimeout bounds a single poll so the shutdown flag is rechecked
	// periodically.
	ReceiveTimeout time.Duration
	// MaxIdlePolls is the number of consecutive empty polls after which an
	// in-progress wait is abandoned.
	MaxIdlePolls int
	// BatchBytes is the byte budget for one batched transmission.
	BatchBytes int
}

// DefaultConfig returns the reference tuning: 4 KiB receive chunks, 1 second
// polls, 30 idle polls before giving up, 16 KiB write batches.
func DefaultConfig() Config {
	return Config{
		ReceiveBuffer:  4096,
		ReceiveTimeout: time.Second,
		MaxIdlePolls:   30,
		BatchBytes:     16384,
	}
}

// Session is the netlink request engine. It owns the socket, the sequence
// allocator and the decoder table, and enforces the single-outstanding-request
// invariant: a second Exchange while one is draining is rejected rather than
// silently corrupting sequence correlation.
type Session struct {
	pid      uint32
	seq      Sequence
	conn     Transport
	decoders DecoderMap
	tracer   *Tracer
	cfg      Config

	shutdown atomic.Bool
	inFlight bool
}

// NewSession creates a session bound to the current process over a lazily
// created NETLINK_ROUTE socket.
func NewSession(cfg Config, decoders DecoderMap, tracer *Tracer) *Session {
	pid := uint32(os.Getpid())
	return NewSessionWith(NewSocket(pid, cfg.ReceiveBuffer), pid, cfg, decoders, tracer)
}

// NewSessionWith creates a session over a caller-supplied transport. Used by
// tests and by callers that manage the socket themselves.
func NewSessionWith(conn Transport, pid uint32, cfg Config, decoders DecoderMap, tracer *Tracer) *Session {
	if tracer == nil {
		tracer = NewTracer("{{dir}} {{type}}, pid {{pid}}, seq {{seq}}, {{len}} bytes")
	}
	return &Session{
		pid:      pid,
		conn:     conn,
		decoders: decoders,
		tracer:   tracer,
		cfg:      cfg,
	}
}

// PID returns the process identity replies are matched against.
func (s *Session) PID() uint32 {
	return s.pid
}

// NextSeq allocates the next request sequence number.
func (s *Session) NextSeq() uint32 {
	return s.seq.Next()
}

// Tracer returns the session's trace registry.
func (s *Session) Tracer() *Tracer {
	return s.tracer
}

// BatchBytes returns the configured byte budget for batched writes.
func (s *Session) BatchBytes() int {
	return s.cfg.BatchBytes
}

// RequestShutdown sets the shutdown flag. Safe to call from a signal handler
// goroutine; an in-progress wait will notice it within one poll interval and
// return partial results.
func (s *Session) RequestShutdown() {
	s.shutdown.Store(true)
}

// Close releases the socket. Idempotent.
func (s *Session) Close() {
	s.conn.Close()
}

// Transmit sends a built request without waiting for any reply. Used for
// fire-and-forget mutations.
func (s *Session) Transmit(req Request) error {
	if !req.Built() {
		return errors.NewInternalError("request must be built before transmit", nil)
	}
	s.traceTX(req)
	return s.conn.Send(req.Buffer())
}

// TransmitRaw sends pre-encoded bytes, typically a batch of concatenated
// requests. No reply is awaited.
func (s *Session) TransmitRaw(buf []byte) error {
	return s.conn.Send(buf)
}

// Exchange transmits a built request and drains the response stream until a
// terminal frame: NLMSG_DONE for dumps, or an NLMSG_ERROR carrying the ack or
// failure code. Decoded data frames are returned in kernel-emission order.
//
// The wait is bounded: if the socket stays unreadable for MaxIdlePolls
// consecutive poll intervals, or the shutdown flag is set, Exchange returns
// whatever accumulated so far without error. Callers of dump operations must
// therefore tolerate partial results under those conditions.
func (s *Session) Exchange(req Request) ([]Message, error) {
	if !req.Built() {
		return nil, errors.NewInternalError("request must be built before exchange", nil)
	}
	if s.inFlight {
		return nil, errors.NewInternalError("a request is already outstanding on this session", nil)
	}
	s.inFlight = true
	defer func() { s.inFlight = false }()

	s.traceTX(req)
	if err := s.conn.Send(req.Buffer()); err != nil {
		return nil, err
	}

	var msgs []Message
	idle := 0

	for {
		if s.shutdown.Load() {
			log.Infof("shutdown flag is set, returning %d accumulated message(s)", len(msgs))
			return msgs, nil
		}

		data, err := s.conn.PollReceive(s.cfg.ReceiveTimeout)
		if goerrors.Is(err, errTimedOut) {
			idle++
			if idle >= s.cfg.MaxIdlePolls {
				log.Warnf("socket was not readable for %d attempts, abandoning wait", idle)
				return msgs, nil
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			log.Infof("RXed zero length data, the socket is closed")
			return msgs, nil
		}
		idle = 0

		done, err := s.drain(data, req.Seq(), &msgs)
		if err != nil {
			return nil, err
		}
		if done {
			return msgs, nil
		}
	}
}

// drain walks one receive buffer frame by frame, discarding foreign frames,
// classifying terminal ones and decoding data frames into msgs. It returns
// true once a terminal frame for the outstanding request was seen.
func (s *Session) drain(data []byte, seq uint32, msgs *[]Message) (bool, error) {
	for len(data) >= HeaderLen {
		h, err := ParseHeader(data)
		if err != nil {
			return false, err
		}
		if int(h.Length) < HeaderLen || int(h.Length) > len(data) {
			return false, errors.NewProtocolError(
				fmt.Sprintf("malformed frame: declared length %d, %d bytes available", h.Length, len(data)), nil)
		}
		frame := data[:h.Length]
		data = data[h.Length:]

		// Frames for another client or a stale sequence are skipped by
		// exactly their declared length and never surfaced.
		if h.PID != s.pid || h.Seq != seq {
			log.Debugf("RXed %s for pid %d seq %d, ours is pid %d seq %d, discarding",
				TypeString(h.Type), h.PID, h.Seq, s.pid, seq)
			continue
		}

		s.tracer.Frame("RXed", h)

		switch h.Type {
		case unix.NLMSG_DONE:
			return true, nil

		case unix.NLMSG_ERROR:
			if len(frame) < HeaderLen+4 {
				return false, errors.NewProtocolError("truncated NLMSG_ERROR frame", nil)
			}
			// The kernel stores the code as a negative signed number;
			// classification uses its magnitude.
			code := int32(binary.NativeEndian.Uint32(frame[HeaderLen : HeaderLen+4]))
			if code < 0 {
				code = -code
			}
			if code == 0 {
				// Ack: the single pending request succeeded.
				return true, nil
			}
			if code == noAddressCode {
				return false, errors.NewNoAddressError(
					fmt.Sprintf("kernel returned %d (%s)", code, unix.Errno(code).Error()))
			}
			return false, errors.NewProtocolError(
				fmt.Sprintf("kernel returned error code %d (%s)", code, unix.Errno(code).Error()), nil)

		default:
			dec, ok := s.decoders[h.Type]
			if !ok {
				return false, errors.NewUnknownMessageError(
					fmt.Sprintf("RXed unknown netlink message type %d", h.Type))
			}
			m, err := dec(h, frame[HeaderLen:])
			if err != nil {
				return false, err
			}
			*msgs = append(*msgs, m)
		}
	}
	return false, nil
}

func (s *Session) traceTX(req Request) {
	if h, err := ParseHeader(req.Buffer()); err == nil {
		s.tracer.Frame("TXed", h)
	}
}
