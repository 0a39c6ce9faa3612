package nl

import (
	goerrors "errors"
	"time"

	"golang.org/x/sys/unix"

	"github.com/rtkit/nlmgr/internal/errors"
)

// errTimedOut signals that a poll interval elapsed without the socket
// becoming readable. It never escapes the session engine.
var errTimedOut = goerrors.New("netlink: poll timed out")

// Transport is the socket surface the session engine drives. The production
// implementation is Socket; tests substitute scripted fakes.
type Transport interface {
	Send(buf []byte) error
	PollReceive(timeout time.Duration) ([]byte, error)
	Close()
}

// Socket owns one raw NETLINK_ROUTE socket. The file descriptor is created
// lazily on first use and bound to (pid, 0) so the kernel addresses replies
// to this process.
type Socket struct {
	fd      int
	pid     uint32
	bufSize int
}

// NewSocket returns an unopened socket bound to pid on first use.
func NewSocket(pid uint32, bufSize int) *Socket {
	return &Socket{fd: -1, pid: pid, bufSize: bufSize}
}

func (s *Socket) ensure() error {
	if s.fd >= 0 {
		return nil
	}
	fd, err := unix.Socket(unix.AF_NETLINK, unix.SOCK_RAW|unix.SOCK_CLOEXEC, unix.NETLINK_ROUTE)
	if err != nil {
		return errors.NewSocketError("failed to create netlink socket", err)
	}
	if err := unix.Bind(fd, &unix.SockaddrNetlink{Family: unix.AF_NETLINK, Pid: s.pid}); err != nil {
		_ = unix.Close(fd)
		return errors.NewSocketError("failed to bind netlink socket", err)
	}
	s.fd = fd
	return nil
}

// Send writes the full buffer to the kernel.
func (s *Socket) Send(buf []byte) error {
	if err := s.ensure(); err != nil {
		return err
	}
	if err := unix.Sendto(s.fd, buf, 0, &unix.SockaddrNetlink{Family: unix.AF_NETLINK}); err != nil {
		return errors.NewSocketError("failed to send netlink message", err)
	}
	return nil
}

// PollReceive blocks up to timeout for readability, then performs one receive
// of at most the configured chunk size. A zero-length result means the peer
// closed the socket. An elapsed timeout (or an interrupting signal, so the
// caller can recheck its shutdown flag) is reported as errTimedOut.
func (s *Socket) PollReceive(timeout time.Duration) ([]byte, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}
	fds := []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(timeout.Milliseconds()))
	if err != nil {
		if err == unix.EINTR {
			return nil, errTimedOut
		}
		return nil, errors.NewSocketError("failed to poll netlink socket", err)
	}
	if n == 0 {
		return nil, errTimedOut
	}
	buf := make([]byte, s.bufSize)
	nr, _, err := unix.Recvfrom(s.fd, buf, 0)
	if err != nil {
		return nil, errors.NewSocketError("failed to receive from netlink socket", err)
	}
	return buf[:nr], nil
}

// Close releases the file descriptor if one exists. Safe to call repeatedly.
func (s *Socket) Close() {
	if s.fd >= 0 {
		_ = unix.Close(s.fd)
		s.fd = -1
	}
}
