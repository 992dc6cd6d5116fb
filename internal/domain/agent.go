package domain

import (
	"context"
	"time"
)

// AgentStatus is the provider-reported lifecycle state of a managed agent.
// The zero value means the status has not been observed yet.
type AgentStatus string

const (
	StatusCreating    AgentStatus = "CREATING"
	StatusNotPrepared AgentStatus = "NOT_PREPARED"
	StatusPreparing   AgentStatus = "PREPARING"
	StatusPrepared    AgentStatus = "PREPARED"
	StatusFailed      AgentStatus = "FAILED"
)

// Ready reports whether the agent can serve alias creation and invocation.
func (s AgentStatus) Ready() bool { return s == StatusPrepared }

// Terminal reports whether a status poll should stop at this state.
func (s AgentStatus) Terminal() bool {
	return s == StatusPrepared || s == StatusFailed
}

// AgentSpec carries the caller-supplied parameters for creating an agent.
type AgentSpec struct {
	Name            string
	FoundationModel string
	Instruction     string
	RoleARN         string
}

// AgentDescriptor is the local view of a remote agent resource. Status is
// the last observed state, never an assumed one.
type AgentDescriptor struct {
	ID              string
	ARN             string
	Name            string
	FoundationModel string
	Instruction     string
	RoleARN         string
	Status          AgentStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AliasDescriptor is the local view of a routable agent alias.
type AliasDescriptor struct {
	AliasID   string
	ARN       string
	AgentID   string
	Name      string
	Status    string
	CreatedAt time.Time
}

// InvocationSession identifies one prompt sent to an aliased agent.
// Reusing the same SessionID continues the remote conversation.
type InvocationSession struct {
	AgentID   string
	AliasID   string
	SessionID string
	Prompt    string
	Trace     bool
}

// CallerIdentity describes the credentials the process is running with.
type CallerIdentity struct {
	Account string
	UserID  string
	ARN     string
}

// AgentAPI is the remote agent service seen by the workflow layer.
// Implementations are thin RPC bindings; they translate transport failures
// into the sentinel errors of this package and do not retry.
type AgentAPI interface {
	CreateAgent(ctx context.Context, spec AgentSpec) (*AgentDescriptor, error)
	PrepareAgent(ctx context.Context, agentID string) (AgentStatus, error)
	GetAgent(ctx context.Context, agentID string) (*AgentDescriptor, error)
	CreateAlias(ctx context.Context, agentID, name string) (*AliasDescriptor, error)
	ListAgents(ctx context.Context) ([]AgentDescriptor, error)
	ListAliases(ctx context.Context, agentID string) ([]AliasDescriptor, error)
	UpdateAgentRole(ctx context.Context, agentID, roleARN string) (*AgentDescriptor, error)
	Invoke(ctx context.Context, session InvocationSession) (InvocationStream, error)
}
