package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"strandctl/internal/infra/config"
)

// checkStatus is the outcome class of one preflight check.
type checkStatus string

const (
	statusPass checkStatus = "PASS"
	statusWarn checkStatus = "WARN"
	statusFail checkStatus = "FAIL"
)

// checkResult holds the outcome of a single preflight check.
type checkResult struct {
	Name    string
	Status  checkStatus
	Message string
	Fix     string
}

// check is a named preflight check.
type check struct {
	Name string
	Fn   func(cfg *config.Config) checkResult
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the local setup before touching the cloud",
	Long: `Run preflight checks on configuration, credentials, and connectivity.
No agent resources are created or modified.`,
	Args: exactArgs(0, "no arguments"),
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	if err := loadDotenv(); err != nil {
		return err
	}

	// Some checks work without a config, so a load failure is reported as a
	// check result instead of aborting.
	cfg, cfgErr := loadConfig()
	if cfg != nil {
		if err := applyFlagOverrides(cfg); err != nil {
			return err
		}
	}

	checks := []check{
		{Name: "Config", Fn: checkConfig(cfgErr)},
		{Name: "Region", Fn: checkRegion},
		{Name: "Credentials", Fn: checkCredentials},
		{Name: "Execution role", Fn: checkExecutionRole},
		{Name: "Instruction", Fn: checkInstruction},
		{Name: "Endpoint", Fn: checkEndpoint(cmd.Context())},
	}

	fmt.Println("strandctl doctor")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println()

	var pass, warn, fail int
	for _, c := range checks {
		result := c.Fn(cfg)
		result.Name = c.Name

		fmt.Printf("  [%s] %s: %s\n", result.Status, result.Name, result.Message)
		if result.Fix != "" {
			fmt.Printf("         Fix: %s\n", result.Fix)
		}

		switch result.Status {
		case statusPass:
			pass++
		case statusWarn:
			warn++
		case statusFail:
			fail++
		}
	}

	fmt.Println()
	fmt.Printf("Results: %d passed, %d warnings, %d failed\n", pass, warn, fail)

	if fail > 0 {
		return fmt.Errorf("%d check(s) failed", fail)
	}
	return nil
}

func checkConfig(cfgErr error) func(*config.Config) checkResult {
	return func(cfg *config.Config) checkResult {
		if cfgErr != nil {
			return checkResult{Status: statusFail, Message: cfgErr.Error(), Fix: "fix the config file or remove it to use defaults"}
		}
		if cfg == nil {
			return checkResult{Status: statusFail, Message: "no configuration loaded"}
		}
		return checkResult{Status: statusPass, Message: "configuration loaded"}
	}
}

func checkRegion(cfg *config.Config) checkResult {
	if cfg == nil || cfg.AWS.Region == "" {
		return checkResult{Status: statusFail, Message: "no region resolved", Fix: "set AWS_REGION or aws.region, or pass --region"}
	}
	return checkResult{Status: statusPass, Message: cfg.AWS.Region}
}

func checkCredentials(cfg *config.Config) checkResult {
	if cfg != nil && cfg.AWS.AccessKey != "" && cfg.AWS.SecretKey != "" {
		return checkResult{Status: statusPass, Message: "static keys configured"}
	}
	if cfg != nil && cfg.AWS.Profile != "" {
		return checkResult{Status: statusPass, Message: fmt.Sprintf("profile %q", cfg.AWS.Profile)}
	}
	if os.Getenv("AWS_ACCESS_KEY_ID") != "" || os.Getenv("AWS_PROFILE") != "" {
		return checkResult{Status: statusPass, Message: "environment credentials present"}
	}
	return checkResult{
		Status:  statusWarn,
		Message: "no explicit credentials found; the default chain (SSO, instance role) may still apply",
		Fix:     "set AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY or AWS_PROFILE, or run 'strandctl whoami' to test the chain",
	}
}

func checkExecutionRole(cfg *config.Config) checkResult {
	role := ""
	if cfg != nil {
		role = cfg.Agent.RoleARN
	}
	if role == "" {
		return checkResult{
			Status:  statusWarn,
			Message: "no execution role configured; create-agent and quickstart will refuse to run",
			Fix:     "set AGENT_ROLE_ARN or agent.role_arn to an IAM role Bedrock can assume",
		}
	}
	if !strings.HasPrefix(role, "arn:") || !strings.Contains(role, ":role/") {
		return checkResult{Status: statusFail, Message: fmt.Sprintf("%q does not look like an IAM role ARN", role)}
	}
	return checkResult{Status: statusPass, Message: role}
}

func checkInstruction(cfg *config.Config) checkResult {
	instruction := ""
	if cfg != nil {
		instruction = cfg.Agent.Instruction
	}
	if len(instruction) < config.MinInstructionLen {
		return checkResult{
			Status:  statusWarn,
			Message: fmt.Sprintf("configured instruction is %d characters, below the provider minimum of %d", len(instruction), config.MinInstructionLen),
			Fix:     "set AGENT_INSTRUCTION to a longer description of the agent's role, or pass --instruction per command",
		}
	}
	return checkResult{Status: statusPass, Message: fmt.Sprintf("%d characters", len(instruction))}
}

func checkEndpoint(ctx context.Context) func(*config.Config) checkResult {
	return func(cfg *config.Config) checkResult {
		if cfg == nil || cfg.AWS.Region == "" {
			return checkResult{Status: statusWarn, Message: "skipped, no region resolved"}
		}
		host := fmt.Sprintf("bedrock-agent.%s.amazonaws.com", cfg.AWS.Region)

		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if _, err := net.DefaultResolver.LookupHost(ctx, host); err != nil {
			return checkResult{
				Status:  statusFail,
				Message: fmt.Sprintf("cannot resolve %s: %v", host, err),
				Fix:     "check the region name and your network connection",
			}
		}
		return checkResult{Status: statusPass, Message: host + " resolves"}
	}
}
