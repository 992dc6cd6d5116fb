package main

import (
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	cfgFile   string
	envFile   string
	region    string
	profile   string
	accessKey string
	secretKey string
	logLevel  string
	logFormat string
)

// rootCmd is the base command; every subcommand registers itself in init.
var rootCmd = &cobra.Command{
	Use:   "strandctl",
	Short: "Provision and invoke Bedrock agents from the command line",
	Long: `strandctl drives Bedrock agents through their lifecycle: create an
agent, prepare it into an invocable version, point an alias at it, and
send prompts to the alias. Each step blocks until the service reaches a
terminal state, so commands compose in scripts without extra polling.

Credentials come from the usual AWS sources (environment, shared config,
SSO). A .env file in the working directory is loaded when present.

Exit codes:
  0 - Success
  1 - Workflow failure
  2 - Usage error
  130 - Interrupted`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./strandctl.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load before reading config (default ./.env)")
	rootCmd.PersistentFlags().StringVar(&region, "region", "", "AWS region (overrides config and AWS_REGION)")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "AWS shared config profile")
	rootCmd.PersistentFlags().StringVar(&accessKey, "access-key", "", "static AWS access key ID (requires --secret-key)")
	rootCmd.PersistentFlags().StringVar(&secretKey, "secret-key", "", "static AWS secret access key (requires --access-key)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text, json")

	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})
}
