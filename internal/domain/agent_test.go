package domain

import "testing"

func TestAgentStatusReady(t *testing.T) {
	tests := []struct {
		status AgentStatus
		ready  bool
	}{
		{StatusCreating, false},
		{StatusNotPrepared, false},
		{StatusPreparing, false},
		{StatusPrepared, true},
		{StatusFailed, false},
		{AgentStatus(""), false},
	}
	for _, tt := range tests {
		if got := tt.status.Ready(); got != tt.ready {
			t.Errorf("%q.Ready() = %v, want %v", tt.status, got, tt.ready)
		}
	}
}

func TestAgentStatusTerminal(t *testing.T) {
	tests := []struct {
		status   AgentStatus
		terminal bool
	}{
		{StatusCreating, false},
		{StatusNotPrepared, false},
		{StatusPreparing, false},
		{StatusPrepared, true},
		{StatusFailed, true},
	}
	for _, tt := range tests {
		if got := tt.status.Terminal(); got != tt.terminal {
			t.Errorf("%q.Terminal() = %v, want %v", tt.status, got, tt.terminal)
		}
	}
}

func TestResponseChunkText(t *testing.T) {
	c := ResponseChunk{Seq: 0, Bytes: []byte("hello")}
	if c.Text() != "hello" {
		t.Errorf("Text() = %q, want %q", c.Text(), "hello")
	}
	if !c.Textual() {
		t.Error("chunk with payload should be textual")
	}

	trace := ResponseChunk{Seq: 1}
	if trace.Text() != "" {
		t.Errorf("Text() = %q, want empty", trace.Text())
	}
	if trace.Textual() {
		t.Error("chunk without payload should not be textual")
	}
}
