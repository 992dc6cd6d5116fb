package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var listAgentsCmd = &cobra.Command{
	Use:   "list-agents",
	Short: "List agents in the account and region",
	Args:  exactArgs(0, "no arguments"),
	RunE:  runListAgents,
}

var listAliasesCmd = &cobra.Command{
	Use:   "list-aliases AGENT_ID",
	Short: "List the aliases of an agent",
	Args:  exactArgs(1, "AGENT_ID"),
	RunE:  runListAliases,
}

func init() {
	rootCmd.AddCommand(listAgentsCmd)
	rootCmd.AddCommand(listAliasesCmd)
}

func runListAgents(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	agents, err := a.flow.ListAgents(cmd.Context())
	if err != nil {
		return err
	}
	if len(agents) == 0 {
		fmt.Println("No agents found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tUPDATED")
	for _, ag := range agents {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ag.ID, ag.Name, ag.Status, formatTime(ag.UpdatedAt))
	}
	return w.Flush()
}

func runListAliases(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	agentID := agentIDFrom(args[0])
	aliases, err := a.flow.ListAliases(cmd.Context(), agentID)
	if err != nil {
		return err
	}
	if len(aliases) == 0 {
		fmt.Printf("No aliases found for agent %s.\n", agentID)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tCREATED")
	for _, al := range aliases {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", al.AliasID, al.Name, al.Status, formatTime(al.CreatedAt))
	}
	return w.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
