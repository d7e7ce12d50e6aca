package main

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/nao1215/megacrawl/internal/source"
)

// NewSourcesCmd creates the sources command.
func NewSourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the supported portal sections",
		Long: `List the portal sections megacrawl can collect, with the alias accepted
by the crawl command and the list endpoint each one uses.`,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-8s  %-18s  %s\n", "alias", "name", "list endpoint")
			for _, def := range source.All() {
				name := def.Kind.String()
				// Hangul is two cells wide; pad by display width.
				pad := 18 - runewidth.StringWidth(name)
				if pad < 0 {
					pad = 0
				}
				fmt.Fprintf(out, "%-8s  %s%*s  %s", def.Kind.Alias(), name, pad, "", def.ListURL)
				if def.Kind.SupportsAttachments() {
					fmt.Fprint(out, "  (attachments)")
				}
				fmt.Fprintln(out)
			}
		},
	}
}
