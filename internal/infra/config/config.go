package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults that mirror the provisioning values the service accepts without
// further input. The default instruction is shorter than MinInstructionLen
// on purpose: creating an agent with it must fail loudly so the caller
// supplies a real one.
const (
	DefaultRegion          = "us-east-1"
	DefaultAgentName       = "strand-demo-agent"
	DefaultFoundationModel = "anthropic.claude-3-haiku-20240307-v1:0"
	DefaultInstruction     = "You are a helpful assistant."
	DefaultAliasName       = "prod"
)

// MinInstructionLen is the provider-enforced minimum length of an agent
// instruction.
const MinInstructionLen = 40

// AWSConfig holds credential and region settings. AccessKey and SecretKey
// are only used together; a partial pair falls back to the default chain.
type AWSConfig struct {
	Region    string `yaml:"region"`
	Profile   string `yaml:"profile"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// AgentConfig holds the create-time agent parameters.
type AgentConfig struct {
	Name            string `yaml:"name"`
	FoundationModel string `yaml:"foundation_model"`
	Instruction     string `yaml:"instruction"`
	RoleARN         string `yaml:"role_arn"`
}

// WorkflowConfig holds the orchestration knobs: how often to poll agent
// status, how long to wait for preparation, and how long to wait between
// stream chunks.
type WorkflowConfig struct {
	PollInterval   time.Duration `yaml:"poll_interval"`
	PrepareTimeout time.Duration `yaml:"prepare_timeout"`
	ChunkTimeout   time.Duration `yaml:"chunk_timeout"`
	AliasName      string        `yaml:"alias_name"`
	ListPageSize   int32         `yaml:"list_page_size"`
}

// BreakerConfig holds circuit breaker settings for the remote client.
type BreakerConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxFailures uint32        `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
	Interval    time.Duration `yaml:"interval"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
}

// Config is the top-level application configuration.
type Config struct {
	AWS      AWSConfig      `yaml:"aws"`
	Agent    AgentConfig    `yaml:"agent"`
	Workflow WorkflowConfig `yaml:"workflow"`
	Breaker  BreakerConfig  `yaml:"breaker"`
	Logger   LoggerConfig   `yaml:"logger"`
	Tracer   TracerConfig   `yaml:"tracer"`
}

// Defaults returns a Config populated with working defaults.
func Defaults() *Config {
	return &Config{
		AWS: AWSConfig{
			Region: DefaultRegion,
		},
		Agent: AgentConfig{
			Name:            DefaultAgentName,
			FoundationModel: DefaultFoundationModel,
			Instruction:     DefaultInstruction,
		},
		Workflow: WorkflowConfig{
			PollInterval:   5 * time.Second,
			PrepareTimeout: 5 * time.Minute,
			ChunkTimeout:   60 * time.Second,
			AliasName:      DefaultAliasName,
			ListPageSize:   50,
		},
		Breaker: BreakerConfig{
			Enabled:     true,
			MaxFailures: 5,
			Timeout:     30 * time.Second,
			Interval:    60 * time.Second,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Tracer: TracerConfig{
			Enabled:  false,
			Exporter: "noop",
		},
	}
}

// Load reads a YAML config file and applies env var overrides. A missing
// file is not an error; defaults plus environment are used instead.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			ApplyEnvOverrides(cfg)
			if err := Validate(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	ApplyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnvOverrides maps environment variables to config fields. The AWS_*
// and AGENT_* names follow the service SDK conventions; STRANDCTL_* names
// cover the knobs specific to this tool.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.AWS.Region = v
	} else if v := os.Getenv("AWS_DEFAULT_REGION"); v != "" {
		cfg.AWS.Region = v
	}
	if v := os.Getenv("AWS_PROFILE"); v != "" {
		cfg.AWS.Profile = v
	}
	if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
		cfg.AWS.AccessKey = v
	}
	if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
		cfg.AWS.SecretKey = v
	}
	if v := os.Getenv("AGENT_NAME"); v != "" {
		cfg.Agent.Name = v
	}
	if v := os.Getenv("FOUNDATION_MODEL"); v != "" {
		cfg.Agent.FoundationModel = v
	}
	if v := os.Getenv("AGENT_INSTRUCTION"); v != "" {
		cfg.Agent.Instruction = v
	}
	if v := os.Getenv("AGENT_ROLE_ARN"); v != "" {
		cfg.Agent.RoleARN = v
	}
	if v := os.Getenv("STRANDCTL_ALIAS_NAME"); v != "" {
		cfg.Workflow.AliasName = v
	}
	if v := os.Getenv("STRANDCTL_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Workflow.PollInterval = d
		}
	}
	if v := os.Getenv("STRANDCTL_PREPARE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Workflow.PrepareTimeout = d
		}
	}
	if v := os.Getenv("STRANDCTL_CHUNK_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Workflow.ChunkTimeout = d
		}
	}
	if v := os.Getenv("STRANDCTL_BREAKER_ENABLED"); v == "false" {
		cfg.Breaker.Enabled = false
	}
	if v := os.Getenv("STRANDCTL_LOGGER_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("STRANDCTL_LOGGER_FORMAT"); v != "" {
		cfg.Logger.Format = v
	}
	if v := os.Getenv("STRANDCTL_LOGGER_OUTPUT"); v != "" {
		cfg.Logger.Output = v
	}
	if v := os.Getenv("STRANDCTL_TRACER_ENABLED"); v == "true" {
		cfg.Tracer.Enabled = true
	}
	if v := os.Getenv("STRANDCTL_TRACER_EXPORTER"); v != "" {
		cfg.Tracer.Exporter = v
	}
}
