package nl

import "github.com/rtkit/nlmgr/internal/errors"

// Batcher concatenates pre-built requests into chunks bounded by a byte
// budget and flushes each chunk as a single fire-and-forget write. Adding an
// IPv4 route costs ~60 bytes on the wire; batching thousands of them avoids
// one send syscall per route. Batched writes are not acknowledged
// individually.
type Batcher struct {
	s     *Session
	buf   []byte
	limit int
}

// NewBatch creates a batcher using the session's configured byte budget.
func (s *Session) NewBatch() *Batcher {
	return &Batcher{s: s, limit: s.cfg.BatchBytes}
}

// Add appends a built request to the current chunk. If the request would push
// the chunk past the budget, the chunk is flushed first; a single request
// larger than the whole budget is sent alone.
func (b *Batcher) Add(req Request) error {
	if !req.Built() {
		return errors.NewInternalError("request must be built before batching", nil)
	}
	if len(b.buf) > 0 && len(b.buf)+len(req.Buffer()) > b.limit {
		if err := b.Flush(); err != nil {
			return err
		}
	}
	b.buf = append(b.buf, req.Buffer()...)
	if len(b.buf) >= b.limit {
		return b.Flush()
	}
	return nil
}

// Flush transmits any accumulated remainder. No-op on an empty chunk.
func (b *Batcher) Flush() error {
	if len(b.buf) == 0 {
		return nil
	}
	err := b.s.TransmitRaw(b.buf)
	b.buf = b.buf[:0]
	return err
}
