package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var setRoleARN string

var setRoleCmd = &cobra.Command{
	Use:   "set-role AGENT_ID",
	Short: "Update the execution role of an existing agent",
	Long: `Attach a different IAM execution role to an agent. The change only
reaches invocations after the agent is prepared again, so follow up with
'strandctl prepare'.`,
	Args: exactArgs(1, "AGENT_ID"),
	RunE: runSetRole,
}

func init() {
	setRoleCmd.Flags().StringVar(&setRoleARN, "role-arn", "", "execution role ARN to attach (default AGENT_ROLE_ARN)")
	rootCmd.AddCommand(setRoleCmd)
}

func runSetRole(cmd *cobra.Command, args []string) error {
	roleARN := setRoleARN
	if roleARN == "" {
		roleARN = os.Getenv("AGENT_ROLE_ARN")
	}
	if roleARN == "" {
		return usageErrorf("--role-arn is required (or set AGENT_ROLE_ARN)")
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	agentID := agentIDFrom(args[0])
	agent, err := a.flow.UpdateAgentRole(cmd.Context(), agentID, roleARN)
	if err != nil {
		return err
	}

	fmt.Println("Agent updated:")
	fmt.Printf("  ID:   %s\n", agent.ID)
	fmt.Printf("  Role: %s\n", agent.RoleARN)
	fmt.Printf("\nNow run 'strandctl prepare %s' to roll the new role into a version.\n", agent.ID)
	return nil
}
