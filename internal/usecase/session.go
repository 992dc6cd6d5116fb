package usecase

import (
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewSessionID returns a ULID for correlating one invocation conversation.
// Passing the same ID to later invocations continues the remote session, so
// IDs must be unique across processes; ULIDs also sort by creation time in
// logs.
func NewSessionID() string {
	return newSessionIDAt(time.Now())
}

func newSessionIDAt(t time.Time) string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}
