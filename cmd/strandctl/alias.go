package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var aliasName string

var aliasCmd = &cobra.Command{
	Use:   "alias AGENT_ID",
	Short: "Create a routable alias for a prepared agent",
	Long: `Create an alias pointing at the agent's prepared version. Invocations
address the alias, not the agent, so this is the last provisioning step
before 'strandctl invoke'. The agent must be PREPARED.`,
	Args: exactArgs(1, "AGENT_ID"),
	RunE: runAlias,
}

func init() {
	aliasCmd.Flags().StringVar(&aliasName, "name", "", "alias name (default from config)")
	rootCmd.AddCommand(aliasCmd)
}

func runAlias(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	name := aliasName
	if name == "" {
		name = a.cfg.Workflow.AliasName
	}

	alias, err := a.flow.CreateAlias(cmd.Context(), agentIDFrom(args[0]), name)
	if err != nil {
		return err
	}

	fmt.Println("Alias created:")
	fmt.Printf("  ID:     %s\n", alias.AliasID)
	fmt.Printf("  ARN:    %s\n", alias.ARN)
	fmt.Printf("  Name:   %s\n", alias.Name)
	fmt.Printf("  Agent:  %s\n", alias.AgentID)
	fmt.Printf("  Status: %s\n", alias.Status)
	return nil
}
