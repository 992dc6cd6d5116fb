package bedrock

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent"
	agenttypes "github.com/aws/aws-sdk-go-v2/service/bedrockagent/types"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"strandctl/internal/domain"
	"strandctl/internal/infra/config"
)

// controlPlaneAPI abstracts the Bedrock Agents control-plane methods for testability.
type controlPlaneAPI interface {
	CreateAgent(ctx context.Context, params *bedrockagent.CreateAgentInput, optFns ...func(*bedrockagent.Options)) (*bedrockagent.CreateAgentOutput, error)
	PrepareAgent(ctx context.Context, params *bedrockagent.PrepareAgentInput, optFns ...func(*bedrockagent.Options)) (*bedrockagent.PrepareAgentOutput, error)
	GetAgent(ctx context.Context, params *bedrockagent.GetAgentInput, optFns ...func(*bedrockagent.Options)) (*bedrockagent.GetAgentOutput, error)
	UpdateAgent(ctx context.Context, params *bedrockagent.UpdateAgentInput, optFns ...func(*bedrockagent.Options)) (*bedrockagent.UpdateAgentOutput, error)
	CreateAgentAlias(ctx context.Context, params *bedrockagent.CreateAgentAliasInput, optFns ...func(*bedrockagent.Options)) (*bedrockagent.CreateAgentAliasOutput, error)
	ListAgents(ctx context.Context, params *bedrockagent.ListAgentsInput, optFns ...func(*bedrockagent.Options)) (*bedrockagent.ListAgentsOutput, error)
	ListAgentAliases(ctx context.Context, params *bedrockagent.ListAgentAliasesInput, optFns ...func(*bedrockagent.Options)) (*bedrockagent.ListAgentAliasesOutput, error)
}

// agentRuntimeAPI abstracts the streaming invocation call.
type agentRuntimeAPI interface {
	InvokeAgent(ctx context.Context, params *bedrockagentruntime.InvokeAgentInput, optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.InvokeAgentOutput, error)
}

// identityAPI abstracts the STS caller-identity lookup.
type identityAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Client implements domain.AgentAPI against AWS Bedrock Agents. It holds one
// control-plane client for lifecycle calls, one runtime client for streaming
// invocations, and an STS client for identity checks.
type Client struct {
	region   string
	profile  string
	control  controlPlaneAPI
	runtime  agentRuntimeAPI
	identity identityAPI
	pageSize int32
	logger   *slog.Logger
}

// New creates a Client using the default AWS credential chain, narrowed by
// the optional shared profile or static key pair in cfg.
func New(ctx context.Context, cfg config.AWSConfig, pageSize int32, logger *slog.Logger) (*Client, error) {
	region := cfg.Region
	if region == "" {
		region = config.DefaultRegion
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &Client{
		region:   region,
		profile:  cfg.Profile,
		control:  bedrockagent.NewFromConfig(awsCfg),
		runtime:  bedrockagentruntime.NewFromConfig(awsCfg),
		identity: sts.NewFromConfig(awsCfg),
		pageSize: pageSize,
		logger:   logger,
	}, nil
}

// newClientWithAPIs creates a Client with injected service clients (for testing).
func newClientWithAPIs(control controlPlaneAPI, runtime agentRuntimeAPI, identity identityAPI, logger *slog.Logger) *Client {
	return &Client{
		region:   config.DefaultRegion,
		control:  control,
		runtime:  runtime,
		identity: identity,
		pageSize: 50,
		logger:   logger,
	}
}

// Region returns the region the client was built for.
func (c *Client) Region() string { return c.region }

// Profile returns the shared config profile, empty when the default chain is used.
func (c *Client) Profile() string { return c.profile }

// CreateAgent implements domain.AgentAPI.
func (c *Client) CreateAgent(ctx context.Context, spec domain.AgentSpec) (*domain.AgentDescriptor, error) {
	out, err := c.control.CreateAgent(ctx, &bedrockagent.CreateAgentInput{
		AgentName:            aws.String(spec.Name),
		FoundationModel:      aws.String(spec.FoundationModel),
		Instruction:          aws.String(spec.Instruction),
		AgentResourceRoleArn: aws.String(spec.RoleARN),
	})
	if err != nil {
		return nil, mapControlError(err, domain.ErrAgentNotFound)
	}
	return fromAgent(out.Agent), nil
}

// PrepareAgent implements domain.AgentAPI. It starts preparation and returns
// the immediately reported status; callers poll GetAgent for progress.
func (c *Client) PrepareAgent(ctx context.Context, agentID string) (domain.AgentStatus, error) {
	out, err := c.control.PrepareAgent(ctx, &bedrockagent.PrepareAgentInput{
		AgentId: aws.String(agentID),
	})
	if err != nil {
		return "", mapControlError(err, domain.ErrAgentNotFound)
	}
	return domain.AgentStatus(out.AgentStatus), nil
}

// GetAgent implements domain.AgentAPI.
func (c *Client) GetAgent(ctx context.Context, agentID string) (*domain.AgentDescriptor, error) {
	out, err := c.control.GetAgent(ctx, &bedrockagent.GetAgentInput{
		AgentId: aws.String(agentID),
	})
	if err != nil {
		return nil, mapControlError(err, domain.ErrAgentNotFound)
	}
	return fromAgent(out.Agent), nil
}

// UpdateAgentRole implements domain.AgentAPI. The service treats agent
// updates as a full replace, so the current descriptor is fetched first and
// sent back with only the role changed.
func (c *Client) UpdateAgentRole(ctx context.Context, agentID, roleARN string) (*domain.AgentDescriptor, error) {
	cur, err := c.control.GetAgent(ctx, &bedrockagent.GetAgentInput{
		AgentId: aws.String(agentID),
	})
	if err != nil {
		return nil, mapControlError(err, domain.ErrAgentNotFound)
	}
	if cur.Agent == nil {
		return nil, fmt.Errorf("%w: empty response for agent %s", domain.ErrAgentNotFound, agentID)
	}

	out, err := c.control.UpdateAgent(ctx, &bedrockagent.UpdateAgentInput{
		AgentId:              aws.String(agentID),
		AgentName:            cur.Agent.AgentName,
		FoundationModel:      cur.Agent.FoundationModel,
		Instruction:          cur.Agent.Instruction,
		AgentResourceRoleArn: aws.String(roleARN),
	})
	if err != nil {
		return nil, mapControlError(err, domain.ErrAgentNotFound)
	}
	return fromAgent(out.Agent), nil
}

// CreateAlias implements domain.AgentAPI.
func (c *Client) CreateAlias(ctx context.Context, agentID, name string) (*domain.AliasDescriptor, error) {
	out, err := c.control.CreateAgentAlias(ctx, &bedrockagent.CreateAgentAliasInput{
		AgentId:        aws.String(agentID),
		AgentAliasName: aws.String(name),
	})
	if err != nil {
		return nil, mapControlError(err, domain.ErrAgentNotFound)
	}
	return fromAlias(out.AgentAlias), nil
}

// ListAgents implements domain.AgentAPI. Pages are fetched until the service
// stops returning a continuation token.
func (c *Client) ListAgents(ctx context.Context) ([]domain.AgentDescriptor, error) {
	var agents []domain.AgentDescriptor
	var token *string
	for {
		out, err := c.control.ListAgents(ctx, &bedrockagent.ListAgentsInput{
			MaxResults: aws.Int32(c.pageSize),
			NextToken:  token,
		})
		if err != nil {
			return nil, mapControlError(err, domain.ErrAgentNotFound)
		}
		for _, s := range out.AgentSummaries {
			agents = append(agents, domain.AgentDescriptor{
				ID:        aws.ToString(s.AgentId),
				Name:      aws.ToString(s.AgentName),
				Status:    domain.AgentStatus(s.AgentStatus),
				UpdatedAt: aws.ToTime(s.UpdatedAt),
			})
		}
		if out.NextToken == nil {
			return agents, nil
		}
		token = out.NextToken
	}
}

// ListAliases implements domain.AgentAPI.
func (c *Client) ListAliases(ctx context.Context, agentID string) ([]domain.AliasDescriptor, error) {
	var aliases []domain.AliasDescriptor
	var token *string
	for {
		out, err := c.control.ListAgentAliases(ctx, &bedrockagent.ListAgentAliasesInput{
			AgentId:    aws.String(agentID),
			MaxResults: aws.Int32(c.pageSize),
			NextToken:  token,
		})
		if err != nil {
			return nil, mapControlError(err, domain.ErrAgentNotFound)
		}
		for _, s := range out.AgentAliasSummaries {
			aliases = append(aliases, domain.AliasDescriptor{
				AliasID:   aws.ToString(s.AgentAliasId),
				AgentID:   agentID,
				Name:      aws.ToString(s.AgentAliasName),
				Status:    string(s.AgentAliasStatus),
				CreatedAt: aws.ToTime(s.CreatedAt),
			})
		}
		if out.NextToken == nil {
			return aliases, nil
		}
		token = out.NextToken
	}
}

// Invoke implements domain.AgentAPI. The returned stream is backed by the
// service event stream; the caller owns closing it.
func (c *Client) Invoke(ctx context.Context, session domain.InvocationSession) (domain.InvocationStream, error) {
	out, err := c.runtime.InvokeAgent(ctx, &bedrockagentruntime.InvokeAgentInput{
		AgentId:      aws.String(session.AgentID),
		AgentAliasId: aws.String(session.AliasID),
		SessionId:    aws.String(session.SessionID),
		InputText:    aws.String(session.Prompt),
		EnableTrace:  aws.Bool(session.Trace),
	})
	if err != nil {
		return nil, mapInvokeError(err)
	}
	return newInvocationStream(ctx, out.GetStream(), c.logger), nil
}

// Identity returns the caller identity behind the configured credentials.
func (c *Client) Identity(ctx context.Context) (*domain.CallerIdentity, error) {
	out, err := c.identity.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, mapControlError(err, domain.ErrAuth)
	}
	return &domain.CallerIdentity{
		Account: aws.ToString(out.Account),
		UserID:  aws.ToString(out.UserId),
		ARN:     aws.ToString(out.Arn),
	}, nil
}

// --- response conversion ---

func fromAgent(a *agenttypes.Agent) *domain.AgentDescriptor {
	if a == nil {
		return nil
	}
	return &domain.AgentDescriptor{
		ID:              aws.ToString(a.AgentId),
		ARN:             aws.ToString(a.AgentArn),
		Name:            aws.ToString(a.AgentName),
		FoundationModel: aws.ToString(a.FoundationModel),
		Instruction:     aws.ToString(a.Instruction),
		RoleARN:         aws.ToString(a.AgentResourceRoleArn),
		Status:          domain.AgentStatus(a.AgentStatus),
		CreatedAt:       aws.ToTime(a.CreatedAt),
		UpdatedAt:       aws.ToTime(a.UpdatedAt),
	}
}

func fromAlias(a *agenttypes.AgentAlias) *domain.AliasDescriptor {
	if a == nil {
		return nil
	}
	return &domain.AliasDescriptor{
		AliasID:   aws.ToString(a.AgentAliasId),
		ARN:       aws.ToString(a.AgentAliasArn),
		AgentID:   aws.ToString(a.AgentId),
		Name:      aws.ToString(a.AgentAliasName),
		Status:    string(a.AgentAliasStatus),
		CreatedAt: aws.ToTime(a.CreatedAt),
	}
}

// Compile-time interface check.
var _ domain.AgentAPI = (*Client)(nil)
