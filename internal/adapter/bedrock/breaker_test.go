package bedrock

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strandctl/internal/domain"
	"strandctl/internal/infra/config"
)

// mockAgentAPI is a hand-rolled domain.AgentAPI for breaker tests.
type mockAgentAPI struct {
	createAgentFunc func(ctx context.Context, spec domain.AgentSpec) (*domain.AgentDescriptor, error)
	getAgentFunc    func(ctx context.Context, agentID string) (*domain.AgentDescriptor, error)
}

func (m *mockAgentAPI) CreateAgent(ctx context.Context, spec domain.AgentSpec) (*domain.AgentDescriptor, error) {
	if m.createAgentFunc != nil {
		return m.createAgentFunc(ctx, spec)
	}
	return &domain.AgentDescriptor{ID: "AGT1"}, nil
}

func (m *mockAgentAPI) PrepareAgent(ctx context.Context, agentID string) (domain.AgentStatus, error) {
	return domain.StatusPreparing, nil
}

func (m *mockAgentAPI) GetAgent(ctx context.Context, agentID string) (*domain.AgentDescriptor, error) {
	if m.getAgentFunc != nil {
		return m.getAgentFunc(ctx, agentID)
	}
	return &domain.AgentDescriptor{ID: agentID, Status: domain.StatusPrepared}, nil
}

func (m *mockAgentAPI) CreateAlias(ctx context.Context, agentID, name string) (*domain.AliasDescriptor, error) {
	return &domain.AliasDescriptor{AliasID: "ALIAS1", AgentID: agentID, Name: name}, nil
}

func (m *mockAgentAPI) ListAgents(ctx context.Context) ([]domain.AgentDescriptor, error) {
	return nil, nil
}

func (m *mockAgentAPI) ListAliases(ctx context.Context, agentID string) ([]domain.AliasDescriptor, error) {
	return nil, nil
}

func (m *mockAgentAPI) UpdateAgentRole(ctx context.Context, agentID, roleARN string) (*domain.AgentDescriptor, error) {
	return &domain.AgentDescriptor{ID: agentID, RoleARN: roleARN}, nil
}

func (m *mockAgentAPI) Invoke(ctx context.Context, session domain.InvocationSession) (domain.InvocationStream, error) {
	return nil, errors.New("not implemented")
}

func TestBreakerPassesThrough(t *testing.T) {
	inner := &mockAgentAPI{}
	bc := NewBreakerClient(inner, config.BreakerConfig{}, slog.Default())

	desc, err := bc.GetAgent(context.Background(), "AGT123")
	require.NoError(t, err)
	assert.Equal(t, "AGT123", desc.ID)
	assert.Equal(t, gobreaker.StateClosed, bc.State())
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	callCount := 0
	inner := &mockAgentAPI{
		getAgentFunc: func(_ context.Context, _ string) (*domain.AgentDescriptor, error) {
			callCount++
			return nil, errors.New("service down")
		},
	}

	cfg := config.BreakerConfig{
		MaxFailures: 3,
		Timeout:     5 * time.Second,
		Interval:    60 * time.Second,
	}
	bc := NewBreakerClient(inner, cfg, slog.Default())

	// First 3 calls go through and fail.
	for i := 0; i < 3; i++ {
		_, err := bc.GetAgent(context.Background(), "AGT1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "service down")
	}
	assert.Equal(t, 3, callCount)

	// Circuit should now be open.
	assert.Equal(t, gobreaker.StateOpen, bc.State())

	// Next call should fail fast without reaching the service.
	_, err := bc.GetAgent(context.Background(), "AGT1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit open")
	assert.Equal(t, 3, callCount, "service should not be called when circuit is open")
}

func TestBreakerClosesAfterRecovery(t *testing.T) {
	shouldFail := true
	inner := &mockAgentAPI{
		getAgentFunc: func(_ context.Context, agentID string) (*domain.AgentDescriptor, error) {
			if shouldFail {
				return nil, errors.New("down")
			}
			return &domain.AgentDescriptor{ID: agentID}, nil
		},
	}

	cfg := config.BreakerConfig{
		MaxFailures: 2,
		Timeout:     50 * time.Millisecond, // short timeout for testing
		Interval:    60 * time.Second,
	}
	bc := NewBreakerClient(inner, cfg, slog.Default())

	for i := 0; i < 2; i++ {
		_, err := bc.GetAgent(context.Background(), "AGT1")
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, bc.State())

	// Wait for the open timeout to elapse, then recover.
	time.Sleep(80 * time.Millisecond)
	shouldFail = false

	desc, err := bc.GetAgent(context.Background(), "AGT1")
	require.NoError(t, err)
	assert.Equal(t, "AGT1", desc.ID)
	assert.Equal(t, gobreaker.StateClosed, bc.State())
}

func TestBreakerSharedAcrossOperations(t *testing.T) {
	inner := &mockAgentAPI{
		getAgentFunc: func(_ context.Context, _ string) (*domain.AgentDescriptor, error) {
			return nil, errors.New("down")
		},
	}

	cfg := config.BreakerConfig{MaxFailures: 2, Timeout: time.Minute}
	bc := NewBreakerClient(inner, cfg, slog.Default())

	for i := 0; i < 2; i++ {
		_, _ = bc.GetAgent(context.Background(), "AGT1")
	}
	require.Equal(t, gobreaker.StateOpen, bc.State())

	// A different operation trips over the same open circuit.
	_, err := bc.CreateAgent(context.Background(), domain.AgentSpec{Name: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit open")
}

func TestBreakerDefaults(t *testing.T) {
	bc := NewBreakerClient(&mockAgentAPI{}, config.BreakerConfig{}, slog.Default())
	counts := bc.Counts()
	assert.Equal(t, uint32(0), counts.Requests)
	assert.Equal(t, gobreaker.StateClosed, bc.State())
}
