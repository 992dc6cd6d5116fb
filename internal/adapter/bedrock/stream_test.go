package bedrock

import (
	"context"
	"errors"
	"testing"
	"time"

	runtimetypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"

	"strandctl/internal/domain"
)

// fakeEventStream feeds canned events through the eventStream interface.
type fakeEventStream struct {
	events chan runtimetypes.ResponseStream
	err    error
	closed bool
}

func newFakeEventStream(events ...runtimetypes.ResponseStream) *fakeEventStream {
	ch := make(chan runtimetypes.ResponseStream, len(events))
	for _, e := range events {
		ch <- e
	}
	close(ch)
	return &fakeEventStream{events: ch}
}

func (f *fakeEventStream) Events() <-chan runtimetypes.ResponseStream { return f.events }
func (f *fakeEventStream) Close() error                               { f.closed = true; return nil }
func (f *fakeEventStream) Err() error                                 { return f.err }

func payload(text string) *runtimetypes.ResponseStreamMemberChunk {
	return &runtimetypes.ResponseStreamMemberChunk{
		Value: runtimetypes.PayloadPart{Bytes: []byte(text)},
	}
}

func collectChunks(t *testing.T, s domain.InvocationStream) []domain.ResponseChunk {
	t.Helper()
	var chunks []domain.ResponseChunk
	timeout := time.After(2 * time.Second)
	for {
		select {
		case c, ok := <-s.Chunks():
			if !ok {
				return chunks
			}
			chunks = append(chunks, c)
		case <-timeout:
			t.Fatal("timed out waiting for stream to end")
		}
	}
}

func TestInvocationStreamOrdersPayloads(t *testing.T) {
	es := newFakeEventStream(payload("Hel"), payload("lo, "), payload("world"))
	s := newInvocationStream(context.Background(), es, newTestLogger())
	defer s.Close()

	chunks := collectChunks(t, s)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	var text string
	for i, c := range chunks {
		if c.Seq != i {
			t.Errorf("chunk %d has Seq %d", i, c.Seq)
		}
		text += c.Text()
	}
	if text != "Hello, world" {
		t.Errorf("text = %q, want %q", text, "Hello, world")
	}
	if err := s.Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
}

func TestInvocationStreamCountsTraceEvents(t *testing.T) {
	es := newFakeEventStream(
		payload("answer"),
		&runtimetypes.ResponseStreamMemberTrace{},
		&runtimetypes.ResponseStreamMemberTrace{},
	)
	s := newInvocationStream(context.Background(), es, newTestLogger())
	defer s.Close()

	chunks := collectChunks(t, s)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3 (trace events count)", len(chunks))
	}
	if !chunks[0].Textual() {
		t.Error("payload chunk should be textual")
	}
	if chunks[1].Textual() || chunks[2].Textual() {
		t.Error("trace chunks should be non-textual")
	}
}

func TestInvocationStreamReportsTransportError(t *testing.T) {
	es := newFakeEventStream(payload("partial"))
	es.err = errors.New("connection reset")

	s := newInvocationStream(context.Background(), es, newTestLogger())
	defer s.Close()

	chunks := collectChunks(t, s)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if !errors.Is(s.Err(), domain.ErrInvocation) {
		t.Errorf("Err() = %v, want ErrInvocation", s.Err())
	}
}

func TestInvocationStreamCloseStopsDrain(t *testing.T) {
	// An unbuffered events channel that never closes simulates a stalled
	// remote stream. Close must unblock the drain goroutine.
	events := make(chan runtimetypes.ResponseStream)
	es := &fakeEventStream{events: events}

	s := newInvocationStream(context.Background(), es, newTestLogger())

	// Fill the chunk buffer so the goroutine blocks on send.
	go func() {
		for i := 0; i < chunkBuffer+1; i++ {
			events <- payload("x")
		}
	}()

	time.Sleep(20 * time.Millisecond)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !es.closed {
		t.Error("Close should close the underlying stream")
	}

	// Close is idempotent.
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestInvocationStreamContextCancelStopsDrain(t *testing.T) {
	events := make(chan runtimetypes.ResponseStream)
	es := &fakeEventStream{events: events}

	ctx, cancel := context.WithCancel(context.Background())
	s := newInvocationStream(ctx, es, newTestLogger())
	defer s.Close()

	// Fill the internal buffer and leave the drain blocked on its next
	// forward, then cancel. The blocked forward must resolve via the
	// context, not by consuming more events.
	for i := 0; i < chunkBuffer+1; i++ {
		events <- payload("x")
	}
	cancel()
	time.Sleep(50 * time.Millisecond)

	select {
	case events <- payload("never"):
		t.Error("drain goroutine should stop consuming after cancel")
	case <-time.After(50 * time.Millisecond):
	}

	chunks := collectChunks(t, s)
	if len(chunks) != chunkBuffer {
		t.Errorf("got %d chunks, want %d buffered before cancel", len(chunks), chunkBuffer)
	}
}

func TestToResponseChunkDropsUnknownMembers(t *testing.T) {
	if _, ok := toResponseChunk(&runtimetypes.UnknownUnionMember{}, 0); ok {
		t.Error("unknown members should be dropped")
	}
	if c, ok := toResponseChunk(payload("hi"), 7); !ok || c.Seq != 7 || c.Text() != "hi" {
		t.Errorf("payload conversion = %+v, ok=%v", c, ok)
	}
}
