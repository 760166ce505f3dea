package emb

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrPoolClosed indicates the pool was closed while a caller waited for a
// session.
var ErrPoolClosed = errors.New("emb: pool closed")

// pool holds pre-created ONNX sessions so concurrent callers never share one.
type pool struct {
	sessions chan *Session
	size     int

	mu     sync.Mutex
	closed bool
}

func newPool(modelPath string, size int) (*pool, error) {
	if size <= 0 {
		size = 1
	}

	p := &pool{
		sessions: make(chan *Session, size),
		size:     size,
	}

	for i := 0; i < size; i++ {
		session, err := NewSession(modelPath)
		if err != nil {
			_ = p.Close() // Best-effort cleanup; original error takes precedence
			return nil, fmt.Errorf("creating session %d: %w", i, err)
		}
		p.sessions <- session
	}

	return p, nil
}

// withSession runs fn with an exclusive session, blocking until one is free.
// Respects context cancellation while waiting.
func (p *pool) withSession(ctx context.Context, fn func(*Session) error) error {
	var session *Session
	select {
	case s, ok := <-p.sessions:
		if !ok {
			return ErrPoolClosed
		}
		session = s
	case <-ctx.Done():
		return ctx.Err()
	}

	defer p.release(session)
	return fn(session)
}

func (p *pool) release(s *Session) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()

	if closed {
		_ = s.Close() // Pool closed while we held the session
		return
	}

	select {
	case p.sessions <- s:
	default:
		_ = s.Close() // Should not happen; never hold more than size sessions
	}
}

// Close closes all sessions. In-flight sessions are closed on release.
func (p *pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	close(p.sessions)

	var errs []error
	for session := range p.sessions {
		if err := session.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
