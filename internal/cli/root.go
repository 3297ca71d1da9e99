// Package cli holds the reqflow command line: serving the API and
// inspecting its route table and OpenAPI document offline.
package cli

import (
	"fmt"
	"os"

	"github.com/Nivhaham/FastApiBasics/internal/config"
	"github.com/spf13/cobra"
)

// Execute runs the reqflow CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the root command so tests can exercise the CLI easily.
// Without a subcommand it serves the API.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "reqflow",
		Short:         "Serve a validated, documented HTTP API",
		Long:          "reqflow dispatches HTTP requests to declared routes, validates every input and publishes an OpenAPI document for them.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			if path != "" {
				return os.Setenv(config.FileEnv, path)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveRunner(cmd.Context())
		},
	}

	// Convert Cobra flag errors (like unknown flags) into usage errors
	// that also show the command's help text.
	flagErrors := func(c *cobra.Command, err error) error {
		return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
	}
	cmd.SetFlagErrorFunc(flagErrors)

	cmd.PersistentFlags().StringP("config", "c", "", "Config file path (YAML), same as "+config.FileEnv)

	for _, sub := range []*cobra.Command{newServeCmd(), newRoutesCmd(), newOpenAPICmd()} {
		sub.SetFlagErrorFunc(flagErrors)
		cmd.AddCommand(sub)
	}

	return cmd
}
