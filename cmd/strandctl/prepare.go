package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var prepareCmd = &cobra.Command{
	Use:   "prepare AGENT_ID",
	Short: "Prepare an agent and wait until it is invocable",
	Long: `Start preparation for an agent and block until its status reaches
PREPARED. Preparation compiles the agent's current configuration into an
invocable version; a FAILED status or an exhausted wait budget aborts with
a non-zero exit.`,
	Args: exactArgs(1, "AGENT_ID"),
	RunE: runPrepare,
}

func init() {
	rootCmd.AddCommand(prepareCmd)
}

func runPrepare(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	agentID := agentIDFrom(args[0])
	fmt.Printf("Preparing agent %s...\n", agentID)

	start := time.Now()
	agent, err := a.flow.PrepareAgent(cmd.Context(), agentID)
	if err != nil {
		return err
	}

	fmt.Printf("Status: %s (took %s)\n", agent.Status, time.Since(start).Round(time.Second))
	return nil
}
