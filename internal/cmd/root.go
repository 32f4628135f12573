// Package cmd wires the filematch commands: duplicate detection within one
// tree, content matching across two trees, and version.
package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// Execute assembles the root command and runs it. The context carries the
// cancellation signal; an interrupt stops feeding new files into a running
// scan and lets in-flight work finish.
func Execute(ctx context.Context, version string) error {
	return newRootCmd(version).ExecuteContext(ctx)
}

func newRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "filematch",
		Short: "Find byte-identical files within or across directory trees",
		Long: "filematch fingerprints every file under a directory tree and groups\n" +
			"files by content: duplicates within one tree, or files whose bytes are\n" +
			"identical across two trees regardless of name or location.",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newVersionCmd(version))
	rootCmd.AddCommand(newDupesCmd())
	rootCmd.AddCommand(newCompareCmd())

	return rootCmd
}
