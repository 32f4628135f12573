package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"filematch/internal/match"
	"filematch/internal/render"
	"filematch/internal/scan"
)

// newCompareCmd creates the compare subcommand.
// Examples:
//
//	filematch compare ./assets-cn ./assets-en
//	filematch compare ./assets-cn ./assets-en --format xlsx -o contrast.xlsx
func newCompareCmd() *cobra.Command {
	options := commonOptions{}

	compareCmd := &cobra.Command{
		Use:   "compare <directory-a> <directory-b>",
		Short: "Match files with identical content across two directory trees",
		Long: "compare pairs files between two trees by content digest. Files whose\n" +
			"bytes are identical match even when their names and locations differ;\n" +
			"files present in only one tree are not reported.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := options.resolve()
			if err != nil {
				return err
			}

			rootA, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("failed to get absolute path: %w", err)
			}
			rootB, err := filepath.Abs(args[1])
			if err != nil {
				return fmt.Errorf("failed to get absolute path: %w", err)
			}

			scanOpts := options.scanOptions(cfg)

			fmt.Fprintf(cmd.OutOrStdout(), "scanning %s\n", rootA)
			resultA, err := scan.Scan(cmd.Context(), rootA, scanOpts)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "scanning %s\n", rootB)
			resultB, err := scan.Scan(cmd.Context(), rootB, scanOpts)
			if err != nil {
				return err
			}

			reportSkipped(resultA, resultB)

			rep := match.MatchAcross(resultA.Index, resultB.Index)
			if rep.Empty() {
				fmt.Fprintln(cmd.OutOrStdout(), "no matching files found")
				return nil
			}

			outPath := options.output
			if outPath == "" {
				name := fmt.Sprintf("matches_%s_vs_%s.%s", filepath.Base(rootA), filepath.Base(rootB), options.format)
				outPath = filepath.Join(filepath.Dir(rootA), name)
			}

			labels := render.Labels{RootA: rootA, RootB: rootB}
			if err := options.writeReport(cmd, rep, labels, outPath); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "found %d matching groups (%d files)\n", len(rep.Groups), rep.TotalFiles())
			if options.format != formatConsole {
				fmt.Fprintf(cmd.OutOrStdout(), "output written to %s\n", outPath)
			}
			return nil
		},
	}

	options.bindFlags(compareCmd)

	return compareCmd
}
