package config

import (
	"fmt"
	"strings"
)

// ValidationError accumulates config validation errors.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

// HasErrors reports whether any validation errors have been recorded.
func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

// Add records a formatted validation error.
func (v *ValidationError) Add(format string, args ...interface{}) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Validate checks cfg for structural correctness. It returns a *ValidationError
// when one or more problems are found, allowing callers to inspect all issues.
// Note that the agent instruction is deliberately not length-checked here; the
// provider minimum is enforced at create time so that a short default does not
// block commands that never create an agent.
func Validate(cfg *Config) error {
	ve := &ValidationError{}
	validateAWS(cfg, ve)
	validateWorkflow(cfg, ve)
	validateLogger(cfg, ve)
	validateTracer(cfg, ve)
	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateAWS(cfg *Config, ve *ValidationError) {
	if cfg.AWS.Region == "" {
		ve.Add("aws.region must not be empty")
	}
	if (cfg.AWS.AccessKey == "") != (cfg.AWS.SecretKey == "") {
		ve.Add("aws.access_key and aws.secret_key must be set together")
	}
}

func validateWorkflow(cfg *Config, ve *ValidationError) {
	if cfg.Workflow.PollInterval <= 0 {
		ve.Add("workflow.poll_interval must be > 0")
	}
	if cfg.Workflow.PrepareTimeout <= 0 {
		ve.Add("workflow.prepare_timeout must be > 0")
	} else if cfg.Workflow.PrepareTimeout < cfg.Workflow.PollInterval {
		ve.Add("workflow.prepare_timeout must be >= workflow.poll_interval")
	}
	if cfg.Workflow.ChunkTimeout <= 0 {
		ve.Add("workflow.chunk_timeout must be > 0")
	}
	if cfg.Workflow.AliasName == "" {
		ve.Add("workflow.alias_name must not be empty")
	}
	if cfg.Workflow.ListPageSize < 1 || cfg.Workflow.ListPageSize > 1000 {
		ve.Add("workflow.list_page_size must be between 1 and 1000, got %d", cfg.Workflow.ListPageSize)
	}
}

func validateLogger(cfg *Config, ve *ValidationError) {
	switch cfg.Logger.Format {
	case "", "text", "json":
	default:
		ve.Add("logger.format must be \"text\" or \"json\", got %q", cfg.Logger.Format)
	}
	switch cfg.Logger.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		ve.Add("logger.level must be one of debug, info, warn, error, got %q", cfg.Logger.Level)
	}
}

func validateTracer(cfg *Config, ve *ValidationError) {
	if !cfg.Tracer.Enabled {
		return
	}
	switch cfg.Tracer.Exporter {
	case "", "noop", "stdout":
	default:
		ve.Add("tracer.exporter must be \"noop\" or \"stdout\", got %q", cfg.Tracer.Exporter)
	}
}
