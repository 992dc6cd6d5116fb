package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"strandctl/internal/domain"
)

var (
	invokeText         string
	invokeAliasName    string
	invokeCreateAlias  bool
	invokeSessionID    string
	invokeTrace        bool
)

var invokeCmd = &cobra.Command{
	Use:   "invoke AGENT_ID [ALIAS_ID]",
	Short: "Send a prompt to an aliased agent and print the reply",
	Long: `Send one prompt to an agent through an alias and print the fully
aggregated streamed reply. When ALIAS_ID is omitted the alias is resolved
by name; --create-alias-if-missing provisions it on the fly. Pass
--session-id to continue an earlier conversation.`,
	Args: rangeArgs(1, 2, "AGENT_ID and an optional ALIAS_ID"),
	RunE: runInvoke,
}

func init() {
	invokeCmd.Flags().StringVar(&invokeText, "text", "", "input text to send to the agent")
	invokeCmd.Flags().StringVar(&invokeAliasName, "alias-name", "", "alias name to resolve when ALIAS_ID is not given (default from config)")
	invokeCmd.Flags().BoolVar(&invokeCreateAlias, "create-alias-if-missing", false, "create the alias if it does not exist")
	invokeCmd.Flags().StringVar(&invokeSessionID, "session-id", "", "session ID to continue a conversation")
	invokeCmd.Flags().BoolVar(&invokeTrace, "trace", false, "request trace events from the agent")
	rootCmd.AddCommand(invokeCmd)
}

func runInvoke(cmd *cobra.Command, args []string) error {
	if invokeText == "" {
		return usageErrorf("--text is required")
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	agentID := agentIDFrom(args[0])
	aliasID, err := resolveInvokeAlias(cmd, a, agentID, args)
	if err != nil {
		return err
	}

	resp, err := a.flow.Invoke(cmd.Context(), domain.InvocationSession{
		AgentID:   agentID,
		AliasID:   aliasID,
		SessionID: invokeSessionID,
		Prompt:    invokeText,
		Trace:     invokeTrace,
	})
	if err != nil {
		return err
	}

	fmt.Println("Response:")
	fmt.Println(resp.FullText)
	return nil
}

// resolveInvokeAlias picks the alias to address: the explicit positional
// ALIAS_ID when given, otherwise a name lookup, optionally creating the
// alias when it does not exist yet.
func resolveInvokeAlias(cmd *cobra.Command, a *app, agentID string, args []string) (string, error) {
	if len(args) == 2 {
		return aliasIDFrom(args[1]), nil
	}

	name := invokeAliasName
	if name == "" {
		name = a.cfg.Workflow.AliasName
	}

	alias, err := a.flow.ResolveAlias(cmd.Context(), agentID, name)
	switch {
	case err == nil:
		return alias.AliasID, nil
	case errors.Is(err, domain.ErrAliasNotFound):
		if !invokeCreateAlias {
			return "", usageErrorf("alias %q not found for agent %s: use list-aliases, pass an alias ID/ARN, or use --create-alias-if-missing", name, agentID)
		}
	case errors.Is(err, domain.ErrCancelled):
		return "", err
	default:
		return "", usageErrorf("cannot list aliases for agent %s: %v; pass an alias ID/ARN directly or grant bedrock:ListAgentAliases", agentID, err)
	}

	created, err := a.flow.CreateAlias(cmd.Context(), agentID, name)
	if err != nil {
		return "", err
	}
	fmt.Printf("Created alias %q with id %s for agent %s.\n", name, created.AliasID, agentID)
	return created.AliasID, nil
}
