package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"strandctl/internal/domain"
)

const defaultChunkTimeout = 60 * time.Second

// Aggregator reduces an invocation stream to its final text. It concatenates
// textual payloads in arrival order and counts every chunk, textual or not.
// The reduction ends at the first chunk carrying a final marker or when the
// stream closes, whichever comes first.
type Aggregator struct {
	chunkTimeout time.Duration
	logger       *slog.Logger
}

// NewAggregator creates an Aggregator. chunkTimeout bounds the wait for each
// individual chunk, not the whole stream; zero falls back to the default.
func NewAggregator(chunkTimeout time.Duration, logger *slog.Logger) *Aggregator {
	if chunkTimeout <= 0 {
		chunkTimeout = defaultChunkTimeout
	}
	return &Aggregator{chunkTimeout: chunkTimeout, logger: logger}
}

// Collect consumes the stream until its end-of-stream signal. A stream that
// ends without delivering a single chunk is an error: the service reported
// success but produced nothing to show the caller.
func (a *Aggregator) Collect(ctx context.Context, stream domain.InvocationStream) (*domain.AggregatedResponse, error) {
	var text strings.Builder
	count := 0

	timer := time.NewTimer(a.chunkTimeout)
	defer timer.Stop()

	for {
		select {
		case chunk, ok := <-stream.Chunks():
			if !ok {
				if err := stream.Err(); err != nil {
					return nil, err
				}
				return finish(&text, count)
			}

			count++
			if chunk.Textual() {
				text.WriteString(chunk.Text())
			}
			if chunk.Final {
				a.discardRemainder(stream)
				return finish(&text, count)
			}
			timer.Reset(a.chunkTimeout)

		case <-timer.C:
			return nil, fmt.Errorf("%w: no chunk within %s", domain.ErrStreamTimeout, a.chunkTimeout)

		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s", domain.ErrCancelled, ctx.Err())
		}
	}
}

// discardRemainder drains chunks already buffered behind a final marker.
// They are logged and excluded from both the text and the count.
func (a *Aggregator) discardRemainder(stream domain.InvocationStream) {
	for {
		select {
		case chunk, ok := <-stream.Chunks():
			if !ok {
				return
			}
			a.logger.Debug("chunk after final marker ignored", "seq", chunk.Seq, "final", chunk.Final)
		default:
			return
		}
	}
}

func finish(text *strings.Builder, count int) (*domain.AggregatedResponse, error) {
	if count == 0 {
		return nil, domain.ErrEmptyResponse
	}
	return &domain.AggregatedResponse{
		FullText:   text.String(),
		ChunkCount: count,
	}, nil
}
