// Package cli implements the sceneview command line.
package cli

import (
	"github.com/spf13/cobra"

	svlog "github.com/KirkDiggler/sceneview/internal/log"
)

// NewRootCmd creates the sceneview command tree
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "sceneview",
		Short: "Headless scene viewer",
		Long:  "sceneview loads scene definitions, inspects their levels and rendering parameters, and drives a headless render loop.",
		// SilenceUsage prevents printing usage on every error
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level, _ := cmd.Flags().GetString("log-level")
			svlog.Configure(svlog.Config{Level: level, Output: cmd.ErrOrStderr()})
		},
	}

	root.PersistentFlags().String("log-level", "", "Log level (default: $LOG_LEVEL or info)")
	root.Version = version

	root.AddCommand(NewInspectCmd())
	root.AddCommand(NewParamsCmd())
	root.AddCommand(NewRunCmd())

	return root
}
