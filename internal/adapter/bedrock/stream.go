package bedrock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	runtimetypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"

	"strandctl/internal/domain"
)

const chunkBuffer = 16

// eventStream is the slice of the SDK event stream the adapter consumes.
// *bedrockagentruntime.InvokeAgentEventStream satisfies it.
type eventStream interface {
	Events() <-chan runtimetypes.ResponseStream
	Close() error
	Err() error
}

// invocationStream adapts the service event stream to domain.InvocationStream.
// A single goroutine drains the SDK channel into chunks; it stops when the
// remote stream ends, the context is cancelled, or Close is called.
type invocationStream struct {
	ch   chan domain.ResponseChunk
	es   eventStream
	done chan struct{}
	once sync.Once

	mu  sync.Mutex
	err error
}

func newInvocationStream(ctx context.Context, es eventStream, logger *slog.Logger) *invocationStream {
	s := &invocationStream{
		ch:   make(chan domain.ResponseChunk, chunkBuffer),
		es:   es,
		done: make(chan struct{}),
	}

	go func() {
		defer close(s.ch)

		seq := 0
		for evt := range es.Events() {
			chunk, ok := toResponseChunk(evt, seq)
			if !ok {
				logger.Debug("unhandled stream event", "type", fmt.Sprintf("%T", evt))
				continue
			}
			select {
			case s.ch <- chunk:
				seq++
			case <-s.done:
				return
			case <-ctx.Done():
				return
			}
		}

		if err := es.Err(); err != nil {
			s.setErr(mapInvokeError(err))
		}
	}()

	return s
}

// toResponseChunk converts one event stream member. Payload parts carry
// text; trace, control, and file events become non-textual chunks so the
// caller's chunk count matches what the service sent. Unknown member types
// are dropped.
func toResponseChunk(evt runtimetypes.ResponseStream, seq int) (domain.ResponseChunk, bool) {
	switch v := evt.(type) {
	case *runtimetypes.ResponseStreamMemberChunk:
		return domain.ResponseChunk{Seq: seq, Bytes: v.Value.Bytes}, true
	case *runtimetypes.ResponseStreamMemberTrace:
		return domain.ResponseChunk{Seq: seq}, true
	case *runtimetypes.ResponseStreamMemberReturnControl:
		return domain.ResponseChunk{Seq: seq}, true
	case *runtimetypes.ResponseStreamMemberFiles:
		return domain.ResponseChunk{Seq: seq}, true
	default:
		return domain.ResponseChunk{}, false
	}
}

// Chunks implements domain.InvocationStream.
func (s *invocationStream) Chunks() <-chan domain.ResponseChunk { return s.ch }

// Err implements domain.InvocationStream. It is meaningful once Chunks is closed.
func (s *invocationStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close implements domain.InvocationStream. It stops the drain goroutine and
// releases the underlying connection.
func (s *invocationStream) Close() error {
	s.once.Do(func() { close(s.done) })
	return s.es.Close()
}

func (s *invocationStream) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Compile-time interface check.
var _ domain.InvocationStream = (*invocationStream)(nil)
