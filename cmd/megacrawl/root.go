// Package main provides the entry point for the megacrawl CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for megacrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "megacrawl",
		Short: "Collect admissions articles from the Megastudy portal",
		Long: `Megacrawl walks the Megastudy portal's admissions sections page by page
and collects article bodies. For the institutional announcement section
(교육기관발표자료) it can also download attachments.

The portal requires a logged-in browser session; pass your cookies with
--cookies as a JSON object copied from the browser's developer tools.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewSourcesCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
