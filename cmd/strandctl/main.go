// Package main provides the strandctl CLI entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"strandctl/internal/domain"
)

const (
	exitOK        = 0
	exitError     = 1
	exitUsage     = 2
	exitInterrupt = 130
)

// usageError marks operator mistakes (bad flags, missing arguments) that
// exit 2 instead of 1.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return reportError(err)
	}
	return exitOK
}

// reportError prints err to stderr and returns the process exit code.
func reportError(err error) int {
	code := exitCodeFor(err)
	switch code {
	case exitInterrupt:
		fmt.Fprintln(os.Stderr, "Interrupted.")
	case exitUsage:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	default:
		fmt.Fprintf(os.Stderr, "Error [%s]: %v\n", domain.ErrorCodeOf(err), err)
	}
	return code
}

func exitCodeFor(err error) int {
	var usage *usageError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &usage):
		return exitUsage
	case errors.Is(err, domain.ErrCancelled) || errors.Is(err, context.Canceled):
		return exitInterrupt
	default:
		return exitError
	}
}

// exactArgs validates positional arity and reports a usage error naming the
// expected arguments.
func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageErrorf("%s requires %s (got %d argument(s))", cmd.Name(), usage, len(args))
		}
		return nil
	}
}

// rangeArgs validates that between min and max positional arguments were
// given.
func rangeArgs(min, max int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < min || len(args) > max {
			return usageErrorf("%s accepts %s (got %d argument(s))", cmd.Name(), usage, len(args))
		}
		return nil
	}
}
