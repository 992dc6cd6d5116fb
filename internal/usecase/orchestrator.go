package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"strandctl/internal/domain"
	"strandctl/internal/infra/config"
	"strandctl/internal/infra/tracer"
)

// Orchestrator drives an agent through its lifecycle: create, prepare with a
// bounded status poll, alias, and invoke with stream aggregation. It is a
// single-flight workflow engine: operations block until the remote side
// reaches a terminal state or the caller's context ends, and nothing is
// retried or rolled back on failure.
type Orchestrator struct {
	api    domain.AgentAPI
	cfg    config.WorkflowConfig
	agg    *Aggregator
	logger *slog.Logger
}

// NewOrchestrator creates an Orchestrator on top of api.
func NewOrchestrator(api domain.AgentAPI, cfg config.WorkflowConfig, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		api:    api,
		cfg:    cfg,
		agg:    NewAggregator(cfg.ChunkTimeout, logger),
		logger: logger,
	}
}

// CreateAgent registers a new agent and returns its descriptor. The agent is
// not usable until prepared; the returned status reflects what the service
// reported, typically CREATING or NOT_PREPARED.
func (o *Orchestrator) CreateAgent(ctx context.Context, spec domain.AgentSpec) (*domain.AgentDescriptor, error) {
	ctx, span := tracer.StartSpan(ctx, "workflow.create_agent",
		trace.WithAttributes(
			tracer.StringAttr("agent.name", spec.Name),
			tracer.StringAttr("agent.model", spec.FoundationModel),
		),
	)
	defer span.End()

	agent, err := o.api.CreateAgent(ctx, spec)
	if err != nil {
		tracer.RecordError(span, err)
		return nil, domain.WrapOp("create agent", err)
	}

	o.logger.Info("agent created",
		"agent_id", agent.ID,
		"agent_name", agent.Name,
		"status", agent.Status,
	)
	tracer.SetOK(span)
	return agent, nil
}

// PrepareAgent starts preparation and polls status until the agent reaches
// PREPARED. A FAILED status or an exhausted poll budget surfaces as an
// error; calling this on an already prepared agent re-prepares it, which the
// service treats as a no-op version bump.
func (o *Orchestrator) PrepareAgent(ctx context.Context, agentID string) (*domain.AgentDescriptor, error) {
	ctx, span := tracer.StartSpan(ctx, "workflow.prepare_agent",
		trace.WithAttributes(tracer.StringAttr("agent.id", agentID)),
	)
	defer span.End()

	status, err := o.api.PrepareAgent(ctx, agentID)
	if err != nil {
		tracer.RecordError(span, err)
		return nil, domain.WrapOp("prepare agent", err)
	}
	o.logger.Info("preparation started", "agent_id", agentID, "status", status)

	agent, err := o.waitForPrepared(ctx, agentID)
	if err != nil {
		tracer.RecordError(span, err)
		return nil, domain.WrapOp("prepare agent", err)
	}

	o.logger.Info("agent prepared", "agent_id", agentID, "status", agent.Status)
	tracer.SetOK(span)
	return agent, nil
}

// waitForPrepared polls the remote status at the configured interval until
// PREPARED, a terminal failure, or the prepare budget elapses. Status is
// always re-read from the service; the last observed descriptor is returned.
func (o *Orchestrator) waitForPrepared(ctx context.Context, agentID string) (*domain.AgentDescriptor, error) {
	var agent *domain.AgentDescriptor

	err := pollUntil(ctx, o.cfg.PollInterval, o.cfg.PrepareTimeout, func(ctx context.Context) (bool, error) {
		a, err := o.api.GetAgent(ctx, agentID)
		if err != nil {
			return false, err
		}
		agent = a
		o.logger.Debug("agent status", "agent_id", agentID, "status", a.Status)

		if a.Status == domain.StatusFailed {
			return false, fmt.Errorf("%w: agent %s reported FAILED", domain.ErrPrepareFailed, agentID)
		}
		return a.Status.Ready(), nil
	})

	switch {
	case err == nil:
		return agent, nil
	case errors.Is(err, errPollTimeout) || errors.Is(err, context.DeadlineExceeded):
		return nil, fmt.Errorf("%w: agent %s not PREPARED within %s", domain.ErrPrepareTimeout, agentID, o.cfg.PrepareTimeout)
	case errors.Is(err, context.Canceled):
		return nil, fmt.Errorf("%w: %s", domain.ErrCancelled, err)
	default:
		return nil, err
	}
}

// CreateAlias creates a routable alias for agentID. The agent's live status
// is checked first: aliasing anything but a PREPARED agent is rejected
// without calling the service.
func (o *Orchestrator) CreateAlias(ctx context.Context, agentID, name string) (*domain.AliasDescriptor, error) {
	ctx, span := tracer.StartSpan(ctx, "workflow.create_alias",
		trace.WithAttributes(
			tracer.StringAttr("agent.id", agentID),
			tracer.StringAttr("alias.name", name),
		),
	)
	defer span.End()

	agent, err := o.api.GetAgent(ctx, agentID)
	if err != nil {
		tracer.RecordError(span, err)
		return nil, domain.WrapOp("create alias", err)
	}
	if !agent.Status.Ready() {
		err := domain.NewWorkflowError("create alias", domain.ErrPrecondition,
			fmt.Sprintf("agent %s is %s, alias requires %s", agentID, agent.Status, domain.StatusPrepared))
		tracer.RecordError(span, err)
		return nil, err
	}

	alias, err := o.api.CreateAlias(ctx, agentID, name)
	if err != nil {
		tracer.RecordError(span, err)
		return nil, domain.WrapOp("create alias", err)
	}

	o.logger.Info("alias created",
		"agent_id", agentID,
		"alias_id", alias.AliasID,
		"alias_name", alias.Name,
	)
	tracer.SetOK(span)
	return alias, nil
}

// Invoke sends one prompt to an aliased agent and aggregates the streamed
// response. A missing SessionID is filled with a fresh ULID; the id used is
// logged so the caller can continue the conversation.
func (o *Orchestrator) Invoke(ctx context.Context, session domain.InvocationSession) (*domain.AggregatedResponse, error) {
	if session.SessionID == "" {
		session.SessionID = NewSessionID()
	}

	ctx, span := tracer.StartSpan(ctx, "workflow.invoke",
		trace.WithAttributes(
			tracer.StringAttr("agent.id", session.AgentID),
			tracer.StringAttr("alias.id", session.AliasID),
			tracer.StringAttr("session.id", session.SessionID),
		),
	)
	defer span.End()

	stream, err := o.api.Invoke(ctx, session)
	if err != nil {
		tracer.RecordError(span, err)
		return nil, domain.WrapOp("invoke", err)
	}
	defer stream.Close()

	resp, err := o.agg.Collect(ctx, stream)
	if err != nil {
		tracer.RecordError(span, err)
		return nil, domain.WrapOp("invoke", err)
	}

	o.logger.Info("invocation complete",
		"session_id", session.SessionID,
		"chunks", resp.ChunkCount,
		"bytes", len(resp.FullText),
	)
	span.SetAttributes(tracer.IntAttr("response.chunks", resp.ChunkCount))
	tracer.SetOK(span)
	return resp, nil
}

// QuickstartSpec bundles the inputs for a full create-to-invoke run.
type QuickstartSpec struct {
	Agent     domain.AgentSpec
	AliasName string
	Prompt    string
}

// QuickstartResult carries the artifacts of a completed quickstart.
type QuickstartResult struct {
	Agent    *domain.AgentDescriptor
	Alias    *domain.AliasDescriptor
	Response *domain.AggregatedResponse
}

// Quickstart runs create, prepare, alias, and invoke as one sequential
// workflow. The first failing step aborts the run; earlier resources are
// left as-is for inspection, never rolled back.
func (o *Orchestrator) Quickstart(ctx context.Context, spec QuickstartSpec) (*QuickstartResult, error) {
	ctx, span := tracer.StartSpan(ctx, "workflow.quickstart",
		trace.WithAttributes(tracer.StringAttr("agent.name", spec.Agent.Name)),
	)
	defer span.End()

	agent, err := o.CreateAgent(ctx, spec.Agent)
	if err != nil {
		tracer.RecordError(span, err)
		return nil, domain.WrapOp("quickstart", err)
	}

	prepared, err := o.PrepareAgent(ctx, agent.ID)
	if err != nil {
		tracer.RecordError(span, err)
		return nil, domain.WrapOp("quickstart", err)
	}

	alias, err := o.CreateAlias(ctx, prepared.ID, spec.AliasName)
	if err != nil {
		tracer.RecordError(span, err)
		return nil, domain.WrapOp("quickstart", err)
	}

	resp, err := o.Invoke(ctx, domain.InvocationSession{
		AgentID: prepared.ID,
		AliasID: alias.AliasID,
		Prompt:  spec.Prompt,
	})
	if err != nil {
		tracer.RecordError(span, err)
		return nil, domain.WrapOp("quickstart", err)
	}

	tracer.SetOK(span)
	return &QuickstartResult{Agent: prepared, Alias: alias, Response: resp}, nil
}

// ListAgents returns every agent visible to the caller.
func (o *Orchestrator) ListAgents(ctx context.Context) ([]domain.AgentDescriptor, error) {
	agents, err := o.api.ListAgents(ctx)
	if err != nil {
		return nil, domain.WrapOp("list agents", err)
	}
	return agents, nil
}

// ListAliases returns the aliases of one agent.
func (o *Orchestrator) ListAliases(ctx context.Context, agentID string) ([]domain.AliasDescriptor, error) {
	aliases, err := o.api.ListAliases(ctx, agentID)
	if err != nil {
		return nil, domain.WrapOp("list aliases", err)
	}
	return aliases, nil
}

// UpdateAgentRole swaps the execution role on an existing agent. The agent
// must be re-prepared afterwards for the change to take effect in new
// versions; that is left to the caller.
func (o *Orchestrator) UpdateAgentRole(ctx context.Context, agentID, roleARN string) (*domain.AgentDescriptor, error) {
	ctx, span := tracer.StartSpan(ctx, "workflow.update_agent_role",
		trace.WithAttributes(tracer.StringAttr("agent.id", agentID)),
	)
	defer span.End()

	agent, err := o.api.UpdateAgentRole(ctx, agentID, roleARN)
	if err != nil {
		tracer.RecordError(span, err)
		return nil, domain.WrapOp("update agent role", err)
	}

	o.logger.Info("agent role updated", "agent_id", agentID, "role_arn", roleARN)
	tracer.SetOK(span)
	return agent, nil
}

// ResolveAlias finds an alias by name on the given agent. Returns
// ErrAliasNotFound when no alias carries the name.
func (o *Orchestrator) ResolveAlias(ctx context.Context, agentID, name string) (*domain.AliasDescriptor, error) {
	aliases, err := o.api.ListAliases(ctx, agentID)
	if err != nil {
		return nil, domain.WrapOp("resolve alias", err)
	}
	for i := range aliases {
		if aliases[i].Name == name {
			return &aliases[i], nil
		}
	}
	return nil, fmt.Errorf("%w: no alias named %q on agent %s", domain.ErrAliasNotFound, name, agentID)
}
