package domain

// ResponseChunk is one unit of a streamed invocation response. Seq is the
// arrival order starting at zero. Bytes holds the textual payload and is
// empty for trace and control events, which still count toward the chunk
// total. Final marks the end of the logical response.
type ResponseChunk struct {
	Seq   int
	Bytes []byte
	Final bool
}

// Text returns the chunk payload as a string, empty for non-textual chunks.
func (c ResponseChunk) Text() string { return string(c.Bytes) }

// Textual reports whether the chunk carries completion text.
func (c ResponseChunk) Textual() bool { return len(c.Bytes) > 0 }

// InvocationStream is a lazy, finite, non-restartable sequence of response
// chunks from a single invocation. Chunks is closed at end of stream; after
// it closes, Err reports the transport failure that ended the stream, if
// any. Close releases the underlying connection and may be called more than
// once.
type InvocationStream interface {
	Chunks() <-chan ResponseChunk
	Err() error
	Close() error
}

// AggregatedResponse is the reduction of one invocation stream. ChunkCount
// includes non-textual chunks; FullText is the textual payloads concatenated
// in arrival order.
type AggregatedResponse struct {
	FullText   string
	ChunkCount int
}
