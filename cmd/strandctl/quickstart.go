package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"strandctl/internal/usecase"
)

var (
	quickstartName        string
	quickstartModel       string
	quickstartInstruction string
	quickstartRoleARN     string
	quickstartAliasName   string
	quickstartPrompt      string
)

var quickstartCmd = &cobra.Command{
	Use:   "quickstart",
	Short: "One-shot: create, prepare, alias, and invoke an agent",
	Long: `Run the whole lifecycle in one command: create an agent, wait for it
to be PREPARED, point an alias at it, and send a first prompt. The first
failing step aborts the run; resources created by earlier steps are left
in place for inspection.`,
	Args: exactArgs(0, "no arguments"),
	RunE: runQuickstart,
}

func init() {
	quickstartCmd.Flags().StringVar(&quickstartName, "name", "", "agent name (default from config)")
	quickstartCmd.Flags().StringVar(&quickstartModel, "model", "", "foundation model ID (default from config)")
	quickstartCmd.Flags().StringVar(&quickstartInstruction, "instruction", "", "agent instruction text, min 40 chars (default from config)")
	quickstartCmd.Flags().StringVar(&quickstartRoleARN, "role-arn", "", "IAM execution role the agent assumes")
	quickstartCmd.Flags().StringVar(&quickstartAliasName, "alias-name", "", "alias name (default from config)")
	quickstartCmd.Flags().StringVar(&quickstartPrompt, "prompt", "Say hello", "prompt to send after setup")
	rootCmd.AddCommand(quickstartCmd)
}

func runQuickstart(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	agentSpec, err := buildAgentSpec(a.cfg, quickstartName, quickstartModel, quickstartInstruction, quickstartRoleARN)
	if err != nil {
		return err
	}

	alias := quickstartAliasName
	if alias == "" {
		alias = a.cfg.Workflow.AliasName
	}

	fmt.Printf("Creating agent %q and preparing it, this can take a few minutes...\n", agentSpec.Name)

	result, err := a.flow.Quickstart(cmd.Context(), usecase.QuickstartSpec{
		Agent:     agentSpec,
		AliasName: alias,
		Prompt:    quickstartPrompt,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Agent %s is %s, alias %q -> %s\n",
		result.Agent.ID, result.Agent.Status, alias, result.Alias.AliasID)
	fmt.Println()
	fmt.Println("Response:")
	fmt.Println(result.Response.FullText)
	fmt.Printf("\n(%d chunks)\n", result.Response.ChunkCount)
	return nil
}
