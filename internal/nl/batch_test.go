package nl

import (
	"testing"

	"golang.org/x/sys/unix"
)

// batchRequest builds a stub request whose encoded buffer has exactly n bytes.
func batchRequest(n int, seq uint32) *stubRequest {
	return &stubRequest{
		buf: frame(unix.RTM_NEWROUTE, seq, testPID, make([]byte, n-HeaderLen)),
		seq: seq,
	}
}

func newTestBatcher(limit int) (*Batcher, *scriptTransport) {
	conn := &scriptTransport{}
	cfg := DefaultConfig()
	cfg.BatchBytes = limit
	s := NewSessionWith(conn, testPID, cfg, stubDecoders(), nil)
	return s.NewBatch(), conn
}

func TestBatcher_FlushesAtExactBudget(t *testing.T) {
	b, conn := newTestBatcher(256)

	// Four 64-byte requests sum to exactly the budget.
	for i := 0; i < 4; i++ {
		if err := b.Add(batchRequest(64, uint32(i+1))); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	if len(conn.sent) != 1 {
		t.Fatalf("sent %d chunks, want 1 at the budget boundary", len(conn.sent))
	}
	if len(conn.sent[0]) != 256 {
		t.Errorf("chunk size = %d, want 256", len(conn.sent[0]))
	}
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if len(conn.sent) != 1 {
		t.Errorf("empty flush must not transmit, sent %d chunks", len(conn.sent))
	}
}

func TestBatcher_NeverExceedsBudget(t *testing.T) {
	b, conn := newTestBatcher(256)

	// 100-byte requests: the third would overflow, forcing a flush of 200.
	for i := 0; i < 3; i++ {
		if err := b.Add(batchRequest(100, uint32(i+1))); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	if len(conn.sent) != 2 {
		t.Fatalf("sent %d chunks, want 2", len(conn.sent))
	}
	for i, chunk := range conn.sent {
		if len(chunk) > 256 {
			t.Errorf("chunk %d is %d bytes, exceeds budget", i, len(chunk))
		}
	}
	if len(conn.sent[0]) != 200 || len(conn.sent[1]) != 100 {
		t.Errorf("chunk sizes = %d, %d; want 200, 100", len(conn.sent[0]), len(conn.sent[1]))
	}
}

func TestBatcher_OversizedRequestSentAlone(t *testing.T) {
	b, conn := newTestBatcher(256)

	if err := b.Add(batchRequest(64, 1)); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := b.Add(batchRequest(400, 2)); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if len(conn.sent) != 2 {
		t.Fatalf("sent %d chunks, want 2", len(conn.sent))
	}
	if len(conn.sent[0]) != 64 {
		t.Errorf("first chunk = %d bytes, want the 64-byte predecessor", len(conn.sent[0]))
	}
	if len(conn.sent[1]) != 400 {
		t.Errorf("second chunk = %d bytes, want the oversized request alone", len(conn.sent[1]))
	}
}

func TestBatcher_FlushSendsRemainder(t *testing.T) {
	b, conn := newTestBatcher(256)

	if err := b.Add(batchRequest(64, 1)); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if len(conn.sent) != 0 {
		t.Fatalf("nothing should be sent below the budget")
	}
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if len(conn.sent) != 1 || len(conn.sent[0]) != 64 {
		t.Errorf("remainder not flushed correctly: %d chunks", len(conn.sent))
	}
}

func TestBatcher_RejectsUnbuiltRequest(t *testing.T) {
	b, _ := newTestBatcher(256)
	if err := b.Add(&stubRequest{}); err == nil {
		t.Errorf("Add() of unbuilt request must fail")
	}
}
