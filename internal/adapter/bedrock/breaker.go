package bedrock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"strandctl/internal/domain"
	"strandctl/internal/infra/config"
)

// Default circuit breaker settings.
const (
	defaultCBMaxFailures uint32        = 5
	defaultCBTimeout     time.Duration = 30 * time.Second
	defaultCBInterval    time.Duration = 60 * time.Second
)

// BreakerClient wraps a domain.AgentAPI with circuit breaker protection.
// When the remote service fails repeatedly, the circuit opens and subsequent
// calls fail fast without reaching the wire, preventing retry storms while
// credentials or the service are broken.
type BreakerClient struct {
	inner   domain.AgentAPI
	breaker *gobreaker.CircuitBreaker[any]
	logger  *slog.Logger
}

// NewBreakerClient wraps inner with a circuit breaker. Zero-valued cfg
// fields fall back to defaults.
func NewBreakerClient(inner domain.AgentAPI, cfg config.BreakerConfig, logger *slog.Logger) *BreakerClient {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = defaultCBMaxFailures
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultCBTimeout
	}
	interval := cfg.Interval
	if interval == 0 {
		interval = defaultCBInterval
	}

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "bedrock-agents",
		MaxRequests: 1, // allow 1 probe in half-open state
		Interval:    interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		IsSuccessful: func(err error) bool {
			return err == nil
		},
	})

	return &BreakerClient{
		inner:   inner,
		breaker: cb,
		logger:  logger,
	}
}

// execute routes one call through the breaker and normalizes its fail-fast errors.
func (b *BreakerClient) execute(fn func() (any, error)) (any, error) {
	v, err := b.breaker.Execute(fn)
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, fmt.Errorf("bedrock circuit open: %w", err)
		}
		return nil, err
	}
	return v, nil
}

// CreateAgent implements domain.AgentAPI.
func (b *BreakerClient) CreateAgent(ctx context.Context, spec domain.AgentSpec) (*domain.AgentDescriptor, error) {
	v, err := b.execute(func() (any, error) {
		return b.inner.CreateAgent(ctx, spec)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.AgentDescriptor), nil
}

// PrepareAgent implements domain.AgentAPI.
func (b *BreakerClient) PrepareAgent(ctx context.Context, agentID string) (domain.AgentStatus, error) {
	v, err := b.execute(func() (any, error) {
		return b.inner.PrepareAgent(ctx, agentID)
	})
	if err != nil {
		return "", err
	}
	return v.(domain.AgentStatus), nil
}

// GetAgent implements domain.AgentAPI.
func (b *BreakerClient) GetAgent(ctx context.Context, agentID string) (*domain.AgentDescriptor, error) {
	v, err := b.execute(func() (any, error) {
		return b.inner.GetAgent(ctx, agentID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.AgentDescriptor), nil
}

// UpdateAgentRole implements domain.AgentAPI.
func (b *BreakerClient) UpdateAgentRole(ctx context.Context, agentID, roleARN string) (*domain.AgentDescriptor, error) {
	v, err := b.execute(func() (any, error) {
		return b.inner.UpdateAgentRole(ctx, agentID, roleARN)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.AgentDescriptor), nil
}

// CreateAlias implements domain.AgentAPI.
func (b *BreakerClient) CreateAlias(ctx context.Context, agentID, name string) (*domain.AliasDescriptor, error) {
	v, err := b.execute(func() (any, error) {
		return b.inner.CreateAlias(ctx, agentID, name)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.AliasDescriptor), nil
}

// ListAgents implements domain.AgentAPI.
func (b *BreakerClient) ListAgents(ctx context.Context) ([]domain.AgentDescriptor, error) {
	v, err := b.execute(func() (any, error) {
		return b.inner.ListAgents(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.AgentDescriptor), nil
}

// ListAliases implements domain.AgentAPI.
func (b *BreakerClient) ListAliases(ctx context.Context, agentID string) ([]domain.AliasDescriptor, error) {
	v, err := b.execute(func() (any, error) {
		return b.inner.ListAliases(ctx, agentID)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.AliasDescriptor), nil
}

// Invoke implements domain.AgentAPI. The breaker protects stream initiation;
// chunk errors after the stream is open do not trip it.
func (b *BreakerClient) Invoke(ctx context.Context, session domain.InvocationSession) (domain.InvocationStream, error) {
	v, err := b.execute(func() (any, error) {
		return b.inner.Invoke(ctx, session)
	})
	if err != nil {
		return nil, err
	}
	return v.(domain.InvocationStream), nil
}

// State returns the current circuit breaker state for monitoring.
func (b *BreakerClient) State() gobreaker.State {
	return b.breaker.State()
}

// Counts returns the current circuit breaker failure/success counts.
func (b *BreakerClient) Counts() gobreaker.Counts {
	return b.breaker.Counts()
}

// Compile-time interface check.
var _ domain.AgentAPI = (*BreakerClient)(nil)
