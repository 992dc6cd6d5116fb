package main

import (
	"errors"
	"strings"
	"testing"

	"strandctl/internal/infra/config"
)

func TestCheckConfigLoadError(t *testing.T) {
	fn := checkConfig(errors.New("parse config: bad yaml"))
	result := fn(nil)
	if result.Status != statusFail {
		t.Errorf("Status = %s, want FAIL for load error", result.Status)
	}
	if result.Fix == "" {
		t.Error("expected a fix suggestion for a broken config")
	}
}

func TestCheckConfigLoaded(t *testing.T) {
	fn := checkConfig(nil)
	result := fn(config.Defaults())
	if result.Status != statusPass {
		t.Errorf("Status = %s, want PASS", result.Status)
	}
}

func TestCheckRegion(t *testing.T) {
	cfg := config.Defaults()
	if result := checkRegion(cfg); result.Status != statusPass {
		t.Errorf("Status = %s, want PASS for default region", result.Status)
	}

	cfg.AWS.Region = ""
	if result := checkRegion(cfg); result.Status != statusFail {
		t.Errorf("Status = %s, want FAIL for empty region", result.Status)
	}

	if result := checkRegion(nil); result.Status != statusFail {
		t.Errorf("Status = %s, want FAIL for nil config", result.Status)
	}
}

func TestCheckCredentialsStaticKeys(t *testing.T) {
	cfg := config.Defaults()
	cfg.AWS.AccessKey = "AKIAEXAMPLE"
	cfg.AWS.SecretKey = "secret"
	result := checkCredentials(cfg)
	if result.Status != statusPass {
		t.Errorf("Status = %s, want PASS for static keys", result.Status)
	}
}

func TestCheckCredentialsProfile(t *testing.T) {
	cfg := config.Defaults()
	cfg.AWS.Profile = "dev"
	result := checkCredentials(cfg)
	if result.Status != statusPass {
		t.Errorf("Status = %s, want PASS for profile", result.Status)
	}
	if !strings.Contains(result.Message, "dev") {
		t.Errorf("Message = %q, want profile name", result.Message)
	}
}

func TestCheckCredentialsNoneConfigured(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_PROFILE", "")
	result := checkCredentials(config.Defaults())
	if result.Status != statusWarn {
		t.Errorf("Status = %s, want WARN when nothing is configured", result.Status)
	}
}

func TestCheckExecutionRole(t *testing.T) {
	cfg := config.Defaults()
	if result := checkExecutionRole(cfg); result.Status != statusWarn {
		t.Errorf("Status = %s, want WARN for missing role", result.Status)
	}

	cfg.Agent.RoleARN = "not-an-arn"
	if result := checkExecutionRole(cfg); result.Status != statusFail {
		t.Errorf("Status = %s, want FAIL for malformed role", result.Status)
	}

	cfg.Agent.RoleARN = "arn:aws:iam::123456789012:role/agent"
	if result := checkExecutionRole(cfg); result.Status != statusPass {
		t.Errorf("Status = %s, want PASS for valid role ARN", result.Status)
	}
}

func TestCheckInstruction(t *testing.T) {
	cfg := config.Defaults()
	result := checkInstruction(cfg)
	if result.Status != statusWarn {
		t.Errorf("Status = %s, want WARN for the short default instruction", result.Status)
	}

	cfg.Agent.Instruction = strings.Repeat("answer questions about runbooks. ", 2)
	if result := checkInstruction(cfg); result.Status != statusPass {
		t.Errorf("Status = %s, want PASS for long instruction", result.Status)
	}
}
