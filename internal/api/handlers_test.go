package api

import (
	"encoding/binary"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/rtkit/nlmgr/internal/nl"
	"github.com/rtkit/nlmgr/internal/rtnl"
)

const testPID = uint32(8181)

// echoConn replies to every request with frames built by reply, keyed off
// the request's sequence number.
type echoConn struct {
	reply func(seq uint32) [][]byte
	queue [][]byte
}

func (c *echoConn) Send(b []byte) error {
	h, err := nl.ParseHeader(b)
	if err != nil {
		return err
	}
	c.queue = append(c.queue, c.reply(h.Seq)...)
	return nil
}

func (c *echoConn) PollReceive(time.Duration) ([]byte, error) {
	if len(c.queue) == 0 {
		return nil, nil
	}
	next := c.queue[0]
	c.queue = c.queue[1:]
	return next, nil
}

func (c *echoConn) Close() {}

func testFrame(mtype uint16, seq uint32, payload []byte) []byte {
	b := make([]byte, nl.HeaderLen+len(payload))
	nl.Header{
		Length: uint32(len(b)),
		Type:   mtype,
		Seq:    seq,
		PID:    testPID,
	}.Marshal(b)
	copy(b[nl.HeaderLen:], payload)
	return b
}

// linkPayload renders an ifinfomsg followed by an IFLA_IFNAME attribute.
func linkPayload(index int32, flags uint32, name string) []byte {
	body := make([]byte, 16)
	binary.NativeEndian.PutUint32(body[4:8], uint32(index))
	binary.NativeEndian.PutUint32(body[8:12], flags)

	value := append([]byte(name), 0)
	attr := make([]byte, (4+len(value)+3)&^3)
	binary.NativeEndian.PutUint16(attr[0:2], uint16(4+len(value)))
	binary.NativeEndian.PutUint16(attr[2:4], 3) // IFLA_IFNAME
	copy(attr[4:], value)

	return append(body, attr...)
}

func newTestServer(reply func(seq uint32) [][]byte) *Server {
	conn := &echoConn{reply: reply}
	s := nl.NewSessionWith(conn, testPID, nl.DefaultConfig(), rtnl.Decoders(), nil)
	return NewServer("127.0.0.1:0", rtnl.NewManager(s))
}

func TestHandleLinks(t *testing.T) {
	srv := newTestServer(func(seq uint32) [][]byte {
		return [][]byte{
			testFrame(unix.RTM_NEWLINK, seq, linkPayload(1, unix.IFF_UP, "lo")),
			testFrame(unix.NLMSG_DONE, seq, nil),
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/links", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Data []LinkResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("got %d links, want 1", len(resp.Data))
	}
	if resp.Data[0].Name != "lo" || !resp.Data[0].Up || resp.Data[0].Index != 1 {
		t.Errorf("link = %+v, want lo, up, index 1", resp.Data[0])
	}
}

func TestHandleAddresses_BadFamily(t *testing.T) {
	srv := newTestServer(func(seq uint32) [][]byte {
		t.Fatal("request reached the socket despite an invalid query")
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/addresses?family=5", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if resp.Error.Code != ErrCodeInvalidRequest {
		t.Errorf("error code = %q, want %q", resp.Error.Code, ErrCodeInvalidRequest)
	}
}

func TestHandleLinkGet_NotFound(t *testing.T) {
	srv := newTestServer(func(seq uint32) [][]byte {
		// ENODEV means the interface does not exist.
		payload := make([]byte, 4)
		errno := int32(-19)
		binary.NativeEndian.PutUint32(payload, uint32(errno))
		return [][]byte{testFrame(unix.NLMSG_ERROR, seq, payload)}
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/links/nope0", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(func(seq uint32) [][]byte { return nil })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "OK" {
		t.Errorf("body = %q, want OK", rec.Body.String())
	}
}
