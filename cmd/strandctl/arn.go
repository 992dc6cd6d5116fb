package main

import "strings"

// Commands accept bare resource IDs or full Bedrock ARNs interchangeably.
// Agent ARNs look like arn:aws:bedrock:REGION:ACCOUNT:agent/AGENT_ID and
// alias ARNs carry the alias ID as their last path segment, either as
// .../agent/AGENT_ID/alias/ALIAS_ID or .../agent-alias/AGENT_ID/ALIAS_ID.

// agentIDFrom extracts the agent ID from an agent or alias ARN. Bare IDs
// and unrecognized values pass through unchanged.
func agentIDFrom(v string) string {
	if !isBedrockARN(v) {
		return v
	}
	if _, after, ok := strings.Cut(v, ":agent/"); ok {
		id, _, _ := strings.Cut(after, "/")
		return id
	}
	return v
}

// aliasIDFrom extracts the alias ID from an alias ARN. Bare IDs and
// unrecognized values pass through unchanged.
func aliasIDFrom(v string) string {
	if !isBedrockARN(v) {
		return v
	}
	if strings.Contains(v, "/alias/") || strings.Contains(v, ":agent-alias/") {
		if i := strings.LastIndex(v, "/"); i >= 0 {
			return v[i+1:]
		}
	}
	return v
}

func isBedrockARN(v string) bool {
	return strings.HasPrefix(v, "arn:") && strings.Contains(v, ":bedrock:")
}
