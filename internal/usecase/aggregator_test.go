package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"strandctl/internal/domain"
)

func newTestLogger() *slog.Logger {
	return slog.Default()
}

// fakeStream is an in-memory InvocationStream backed by a buffered channel.
type fakeStream struct {
	ch chan domain.ResponseChunk

	mu     sync.Mutex
	err    error
	closed bool
}

func (s *fakeStream) Chunks() <-chan domain.ResponseChunk { return s.ch }

func (s *fakeStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *fakeStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeStream) wasClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// closedStream buffers chunks and closes the channel, the shape a completed
// remote stream presents.
func closedStream(chunks ...domain.ResponseChunk) *fakeStream {
	s := openStream(chunks...)
	close(s.ch)
	return s
}

// openStream buffers chunks but leaves the channel open, as when a remote
// stream stalls mid-response.
func openStream(chunks ...domain.ResponseChunk) *fakeStream {
	s := &fakeStream{ch: make(chan domain.ResponseChunk, len(chunks)+1)}
	for _, c := range chunks {
		s.ch <- c
	}
	return s
}

// failedStream ends like closedStream but reports err as the stream outcome.
func failedStream(err error, chunks ...domain.ResponseChunk) *fakeStream {
	s := openStream(chunks...)
	s.err = err
	close(s.ch)
	return s
}

func textChunks(parts ...string) []domain.ResponseChunk {
	chunks := make([]domain.ResponseChunk, len(parts))
	for i, p := range parts {
		chunks[i] = domain.ResponseChunk{Seq: i, Bytes: []byte(p)}
	}
	return chunks
}

func finalChunk(seq int) domain.ResponseChunk {
	return domain.ResponseChunk{Seq: seq, Final: true}
}

func TestAggregatorConcatenatesInOrder(t *testing.T) {
	agg := NewAggregator(time.Second, newTestLogger())
	chunks := append(textChunks("Hel", "lo, ", "world"), finalChunk(3))

	resp, err := agg.Collect(context.Background(), closedStream(chunks...))
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if resp.FullText != "Hello, world" {
		t.Errorf("FullText = %q, want %q", resp.FullText, "Hello, world")
	}
	if resp.ChunkCount != 4 {
		t.Errorf("ChunkCount = %d, want 4", resp.ChunkCount)
	}
}

func TestAggregatorChannelCloseEndsStream(t *testing.T) {
	agg := NewAggregator(time.Second, newTestLogger())

	resp, err := agg.Collect(context.Background(), closedStream(textChunks("a", "b")...))
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if resp.FullText != "ab" {
		t.Errorf("FullText = %q, want %q", resp.FullText, "ab")
	}
	if resp.ChunkCount != 2 {
		t.Errorf("ChunkCount = %d, want 2", resp.ChunkCount)
	}
}

func TestAggregatorEmptyStream(t *testing.T) {
	agg := NewAggregator(time.Second, newTestLogger())

	resp, err := agg.Collect(context.Background(), closedStream())
	if !errors.Is(err, domain.ErrEmptyResponse) {
		t.Fatalf("Collect() error = %v, want ErrEmptyResponse", err)
	}
	if resp != nil {
		t.Errorf("Collect() response = %+v, want nil", resp)
	}
}

func TestAggregatorFinalMarkerCounts(t *testing.T) {
	agg := NewAggregator(time.Second, newTestLogger())

	resp, err := agg.Collect(context.Background(), closedStream(finalChunk(0)))
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if resp.ChunkCount != 1 {
		t.Errorf("ChunkCount = %d, want 1", resp.ChunkCount)
	}
	if resp.FullText != "" {
		t.Errorf("FullText = %q, want empty", resp.FullText)
	}
}

func TestAggregatorIgnoresChunksAfterFinal(t *testing.T) {
	agg := NewAggregator(time.Second, newTestLogger())
	chunks := []domain.ResponseChunk{
		{Seq: 0, Bytes: []byte("ok")},
		{Seq: 1, Final: true},
		{Seq: 2, Final: true},
		{Seq: 3, Bytes: []byte("late")},
	}

	resp, err := agg.Collect(context.Background(), closedStream(chunks...))
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if resp.ChunkCount != 2 {
		t.Errorf("ChunkCount = %d, want 2", resp.ChunkCount)
	}
	if resp.FullText != "ok" {
		t.Errorf("FullText = %q, want %q", resp.FullText, "ok")
	}
}

func TestAggregatorCountsNonTextualChunks(t *testing.T) {
	agg := NewAggregator(time.Second, newTestLogger())
	chunks := []domain.ResponseChunk{
		{Seq: 0},
		{Seq: 1, Bytes: []byte("text")},
		{Seq: 2},
	}

	resp, err := agg.Collect(context.Background(), closedStream(chunks...))
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if resp.ChunkCount != 3 {
		t.Errorf("ChunkCount = %d, want 3", resp.ChunkCount)
	}
	if resp.FullText != "text" {
		t.Errorf("FullText = %q, want %q", resp.FullText, "text")
	}
}

func TestAggregatorChunkTimeout(t *testing.T) {
	agg := NewAggregator(30*time.Millisecond, newTestLogger())

	resp, err := agg.Collect(context.Background(), openStream(textChunks("partial")...))
	if !errors.Is(err, domain.ErrStreamTimeout) {
		t.Fatalf("Collect() error = %v, want ErrStreamTimeout", err)
	}
	if resp != nil {
		t.Errorf("Collect() response = %+v, want nil on timeout", resp)
	}
}

func TestAggregatorContextCancelled(t *testing.T) {
	agg := NewAggregator(time.Second, newTestLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := agg.Collect(ctx, openStream())
	if !errors.Is(err, domain.ErrCancelled) {
		t.Fatalf("Collect() error = %v, want ErrCancelled", err)
	}
}

func TestAggregatorPropagatesStreamError(t *testing.T) {
	agg := NewAggregator(time.Second, newTestLogger())
	streamErr := fmt.Errorf("%w: connection reset", domain.ErrInvocation)

	resp, err := agg.Collect(context.Background(), failedStream(streamErr, textChunks("par")...))
	if !errors.Is(err, domain.ErrInvocation) {
		t.Fatalf("Collect() error = %v, want ErrInvocation", err)
	}
	if resp != nil {
		t.Errorf("Collect() response = %+v, want nil on stream error", resp)
	}
}

func TestNewAggregatorDefaultTimeout(t *testing.T) {
	agg := NewAggregator(0, newTestLogger())
	if agg.chunkTimeout != defaultChunkTimeout {
		t.Errorf("chunkTimeout = %s, want %s", agg.chunkTimeout, defaultChunkTimeout)
	}
}
