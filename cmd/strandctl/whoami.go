package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the AWS caller identity, region, and profile in use",
	Args:  exactArgs(0, "no arguments"),
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	ident, err := a.client.Identity(cmd.Context())
	if err != nil {
		return err
	}

	profile := a.client.Profile()
	if profile == "" {
		profile = "(default)"
	}

	fmt.Printf("Account: %s\n", ident.Account)
	fmt.Printf("UserId:  %s\n", ident.UserID)
	fmt.Printf("Arn:     %s\n", ident.ARN)
	fmt.Printf("Region:  %s\n", a.client.Region())
	fmt.Printf("Profile: %s\n", profile)
	return nil
}
