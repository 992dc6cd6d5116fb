package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"strandctl/internal/domain"
	"strandctl/internal/infra/config"
)

var (
	createModel       string
	createInstruction string
	createRoleARN     string
)

var createAgentCmd = &cobra.Command{
	Use:   "create-agent [NAME]",
	Short: "Create a new agent",
	Long: `Create a new agent from the configured name, foundation model, and
instruction. The agent starts unprepared; run 'strandctl prepare' to build
an invocable version from it.`,
	Args: rangeArgs(0, 1, "at most one NAME"),
	RunE: runCreateAgent,
}

func init() {
	createAgentCmd.Flags().StringVar(&createModel, "model", "", "foundation model ID (default from config)")
	createAgentCmd.Flags().StringVar(&createInstruction, "instruction", "", "agent instruction text, min 40 chars (default from config)")
	createAgentCmd.Flags().StringVar(&createRoleARN, "role-arn", "", "IAM execution role the agent assumes")
	rootCmd.AddCommand(createAgentCmd)
}

func runCreateAgent(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	spec, err := buildAgentSpec(a.cfg, name, createModel, createInstruction, createRoleARN)
	if err != nil {
		return err
	}

	agent, err := a.flow.CreateAgent(cmd.Context(), spec)
	if err != nil {
		return err
	}

	fmt.Println("Agent created:")
	fmt.Printf("  ID:     %s\n", agent.ID)
	fmt.Printf("  ARN:    %s\n", agent.ARN)
	fmt.Printf("  Name:   %s\n", agent.Name)
	fmt.Printf("  Model:  %s\n", agent.FoundationModel)
	fmt.Printf("  Status: %s\n", agent.Status)
	fmt.Printf("\nNext: strandctl prepare %s\n", agent.ID)
	return nil
}

// buildAgentSpec resolves the create-time parameters from explicit values
// and config, then applies the provider-imposed constraints: an execution
// role is mandatory and the instruction must meet the minimum length.
func buildAgentSpec(cfg *config.Config, name, model, instruction, roleARN string) (domain.AgentSpec, error) {
	spec := domain.AgentSpec{
		Name:            cfg.Agent.Name,
		FoundationModel: cfg.Agent.FoundationModel,
		Instruction:     cfg.Agent.Instruction,
		RoleARN:         cfg.Agent.RoleARN,
	}
	if name != "" {
		spec.Name = name
	}
	if model != "" {
		spec.FoundationModel = model
	}
	if instruction != "" {
		spec.Instruction = instruction
	}
	if roleARN != "" {
		spec.RoleARN = roleARN
	}

	if spec.RoleARN == "" {
		return domain.AgentSpec{}, usageErrorf("an execution role is required: pass --role-arn or set AGENT_ROLE_ARN")
	}
	if len(spec.Instruction) < config.MinInstructionLen {
		return domain.AgentSpec{}, usageErrorf(
			"instruction must be at least %d characters, got %d; pass --instruction or set AGENT_INSTRUCTION to a longer description of the agent's role",
			config.MinInstructionLen, len(spec.Instruction))
	}
	return spec, nil
}
